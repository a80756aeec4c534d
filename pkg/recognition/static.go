package recognition

import "context"

// Static is an offline engine that answers every request with the same
// candidates. With no candidates it recognizes nothing.
type Static struct {
	Candidates []string
	// NotReady makes the engine report itself unavailable.
	NotReady bool
}

func (s Static) IsReady(ctx context.Context) bool     { return !s.NotReady }
func (s Static) EnsureReady(ctx context.Context) bool { return !s.NotReady }

func (s Static) Recognize(ctx context.Context, ink Ink) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]string, len(s.Candidates))
	copy(out, s.Candidates)
	return out, nil
}
