// Package target assembles the per-variant query surface used by the
// build and cook pipeline.
//
// A Target combines a variant's static properties, its device registry and
// its format negotiator behind one set of methods. A Module creates one
// Target per variant on first use and keeps it for the process lifetime.
//
// Usage:
//
//	mod := target.NewModule(target.ModuleOptions{
//	    Platform: "Linux",
//	    OS:       "linux",
//	    Store:    store,
//	    Host:     host,
//	})
//	t, err := mod.Target("LinuxNoEditor")
//	if err != nil {
//	    return err
//	}
//	formats := t.TextureFormatsFor(tex)
package target
