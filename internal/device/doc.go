// Package device provides the per-target device registry.
//
// A Registry is the single source of truth for which deployment devices a
// target variant knows about. It holds at most one local device, derived
// from the running host, plus any number of devices added by users or
// tools. Added devices are written to a config store after every change and
// read back when the registry is created.
//
// # Config records
//
// Devices are stored positionally under one section:
//
//	LinuxTargetPlatfrom_LinuxNoEditor_Device_0_Name=render-01
//	LinuxTargetPlatfrom_LinuxNoEditor_Device_0_User=builder
//	LinuxTargetPlatfrom_LinuxNoEditor_Device_0_Pass=secret
//	LinuxTargetPlatfrom_LinuxNoEditor_Device_1_Name=render-02
//
// Indices are reassigned on every save and carry no identity. Loading stops
// at the first missing index.
//
// # Reentrancy
//
// Load and save share one "config mutation in progress" flag under the
// registry mutex. A save triggered by adding a device during a load is a
// no-op, so loading never writes back what it is reading.
//
// # Usage
//
//	reg := device.NewRegistry(device.Options{
//	    Platform:  "LinuxNoEditor",
//	    Section:   "/Script/LinuxTargetPlatform.LinuxTargetSettings",
//	    KeyPrefix: "LinuxTargetPlatfrom",
//	    Store:     store,
//	})
//	reg.OnDeviceDiscovered().Subscribe(func(d device.Device) {
//	    log.Info("device discovered", "device", d.ID)
//	})
//	reg.AddDevice("render-01", "Render 01", "", "", false)
package device
