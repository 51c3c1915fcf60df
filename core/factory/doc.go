// Package factory provides a small generic registry used to instantiate
// collaborators from configuration. A module is defined by a type string and a
// map of raw settings; factories decode the settings into typed structs and
// return the concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[planner.FleetSource]()
//	reg.MustRegister("file", func(conf map[string]any) (planner.FleetSource, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return sources.NewFileFleet(c.Path), nil
//	})
//	src, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "fleet.json"}})
package factory
