package platform

import (
	"github.com/aretw0/inkjournal/pkg/core"
)

// New opens the journal at uri and returns the service operating on it.
//
//	svc, err := inkjournal.New("./journal", inkjournal.WithAutoInit(true))
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	var svcOpts []core.ServiceOption
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithLogger(o.logger))
	}
	if o.recognizer != nil {
		svcOpts = append(svcOpts, core.WithRecognizer(o.recognizer))
	}
	if size, ok := o.config["event_buffer"].(int); ok {
		svcOpts = append(svcOpts, core.WithEventBuffer(size))
	}

	return core.NewService(repo, svcOpts...), nil
}
