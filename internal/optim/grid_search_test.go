package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

func bowl(_ context.Context, p Point) (map[string]float64, error) {
	x, y := p["x"], p["y"]
	return map[string]float64{"cost": (x-2)*(x-2) + y}, nil
}

func TestGridSearch(t *testing.T) {
	g, err := NewGridSearch([]string{"x", "y"}, [][]float64{{1, 2, 3}, {10, 20}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 6 {
		t.Fatalf("size %d, want 6", g.Size())
	}

	trials, best, err := g.Search(context.Background(), bowl, "cost")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 6 {
		t.Fatalf("%d trials, want 6", len(trials))
	}
	// First parameter varies slowest.
	if trials[1].Params["x"] != 1 || trials[1].Params["y"] != 20 || trials[2].Params["x"] != 2 {
		t.Errorf("unexpected order: %v %v", trials[1].Params, trials[2].Params)
	}
	if best == nil || best.Params["x"] != 2 || best.Params["y"] != 10 || best.Metrics["cost"] != 10 {
		t.Errorf("best %+v", best)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g, err := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("diverged")
	run := func(ctx context.Context, p Point) (map[string]float64, error) {
		if p["x"] == 2 {
			return nil, boom
		}
		return bowl(ctx, p)
	}

	trials, best, err := g.Search(context.Background(), run, "cost")
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(trials[1].Err, boom) {
		t.Errorf("trial error %v", trials[1].Err)
	}
	if best == nil || best.Params["x"] == 2 {
		t.Errorf("best %+v", best)
	}

	all := func(context.Context, Point) (map[string]float64, error) { return nil, boom }
	if _, best, _ := g.Search(context.Background(), all, "cost"); best != nil {
		t.Error("best should be nil when every trial fails")
	}
}

func TestGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"x"}, nil); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("got %v", err)
	}
	if _, err := NewGridSearch([]string{"x"}, [][]float64{{}}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("got %v", err)
	}

	g, _ := NewGridSearch([]string{"x"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), bowl, "missing"); err == nil {
		t.Error("expected error for unknown metric")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, bowl, "cost"); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
