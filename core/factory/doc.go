// Package factory provides a small generic registry used to instantiate
// pluggable backends from configuration. A backend is named by a type string
// and configured by a map of raw settings that its factory decodes into a
// typed struct.
//
// Example usage:
//
//	reg := factory.NewRegistry[store.Repository]()
//	reg.Register("fixture", func(conf map[string]any) (store.Repository, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return fixture.Open(c.Path)
//	})
//	repo, err := reg.Create(factory.ModuleConfig{Type: "fixture", Conf: map[string]any{"path": "fleet.yaml"}})
package factory
