package plugin

import "fmt"

// OutputFactory builds an AlertSink from its on-disk location
// and write batch size.
type OutputFactory func(path string, batchSize int) (AlertSink, error)

// Outputs is a global map of AlertSink plugins.
var Outputs = map[string]OutputFactory{
	"badgerdb": func(path string, batchSize int) (AlertSink, error) {
		return NewBadgerOutput(path, batchSize)
	},
}

func OutputLookup(name string) (OutputFactory, error) {
	factory, ok := Outputs[name]
	if !ok {
		return nil, fmt.Errorf("unknown output: %s", name)
	}
	return factory, nil
}
