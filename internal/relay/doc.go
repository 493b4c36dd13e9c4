// Package relay carries device registry events out of the process.
//
// A Relay subscribes to the discovered/lost hubs of every target a
// target.Module creates and forwards each event, as an Event, to a set of
// named sinks:
//   - MQTTSink publishes the event as JSON on the variant's device topic
//   - InfluxSink writes a device_events point
//   - Recorder appends a row to the SQLite device_events table
//
// Registry hubs dispatch on the goroutine that changed the registry, so the
// relay only enqueues there. Run drains the queue on its own goroutine,
// keeping a slow broker from stalling AddDevice callers.
//
// The Announcer goes the other way: it listens for device announcements
// from remote agents on MQTT and adds the announced devices to the matching
// target.
//
// Usage:
//
//	r := relay.New(logger)
//	r.AddSink("mqtt", relay.NewMQTTSink(mqttClient))
//	r.AddSink("history", relay.NewRecorder(db.DB))
//	r.Attach(module)
//	go r.Run(ctx)
package relay
