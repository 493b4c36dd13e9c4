package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names written by the service.
const (
	MeasurementDeviceEvents = "device_events"
	MeasurementRegistrySize = "registry_size"
)

// WriteDeviceEvent records a registry event for one device.
//
// Tags: variant, device, kind ("discovered" or "lost"). Field: local (bool),
// plus count=1 so events can be summed per window.
// The write is non-blocking; points are batched and sent asynchronously.
func (c *Client) WriteDeviceEvent(variant, device, kind string, local bool, at time.Time) {
	c.WritePointWithTime(MeasurementDeviceEvents,
		map[string]string{
			"variant": variant,
			"device":  device,
			"kind":    kind,
		},
		map[string]interface{}{
			"count": 1,
			"local": local,
		},
		at,
	)
}

// WriteRegistrySize records how many devices a variant's registry holds.
func (c *Client) WriteRegistrySize(variant string, devices int) {
	c.WritePoint(MeasurementRegistrySize,
		map[string]string{"variant": variant},
		map[string]interface{}{"devices": devices},
	)
}

// WritePoint writes a point stamped with the current time.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	c.WritePointWithTime(measurement, tags, fields, time.Now())
}

// WritePointWithTime writes a point with an explicit timestamp.
// Points written while disconnected are counted in Dropped.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		c.dropped.Add(1)
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, timestamp))
}
