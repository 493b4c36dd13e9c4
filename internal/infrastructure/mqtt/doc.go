// Package mqtt provides MQTT connectivity for the target platform service.
//
// The service publishes device registry events so build farms and
// dashboards can follow which devices each target variant knows about, and
// subscribes to device announcements so remote agents can register
// themselves.
//
//	registry event ──► targetplatform/device/{variant}/discovered
//	remote agent   ──► targetplatform/announce/{variant} ──► AddDevice
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions, restored after reconnect
//   - Last Will and Testament on targetplatform/system/status
//
// # Security Considerations
//
//   - Use TLS outside local development (cfg.Broker.TLS=true)
//   - Device event payloads never carry device passwords
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.PublishJSON(mqtt.Topics{}.DeviceDiscovered("LinuxNoEditor"), event)
package mqtt
