// Package factory is a small generic registry that builds pluggable modules
// (metrics sinks, plan stores) from configuration. A module is named by a
// type string and carries a map of raw settings which the registered
// factory decodes into its own typed struct.
//
//	reg := factory.NewRegistry[plans.Store]()
//	_ = reg.Register("jsonl", func(conf map[string]any) (plans.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return plans.NewJSONLStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "plans.jsonl"}})
package factory
