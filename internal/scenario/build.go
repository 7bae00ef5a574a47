package scenario

import (
	"fmt"

	"github.com/recera/lunk/pkg/reactor"
)

// Op names supported by LinkSpec.Op.
const (
	OpCopy      = "copy"      // output = inputs[0]
	OpSum       = "sum"       // output = sum(inputs)
	OpProduct   = "product"   // output = product(inputs)
	OpIncrement = "increment" // output = inputs[0] + params["by"]
	OpScale     = "scale"     // output = inputs[0] * params["by"]
)

// Graph is a built, running instance of a Scenario: its EventGraph plus
// name-addressable handles to every cell and link it declared.
type Graph struct {
	EG    *reactor.EventGraph
	Cells map[string]*reactor.Cell[float64]
	Links map[string]*reactor.Link

	Registry *reactor.Registry
}

// Build wires a fresh EventGraph from s: constructs every declared
// cell, then registers every declared link inside a single event scope
// (so links with no inputs still get their first-activation write
// applied before Build returns), and tracks every cell and every named
// link, under its name, in a reactor.Registry for introspection.
func Build(s *Scenario) (*Graph, error) {
	g := &Graph{
		EG:       reactor.New(),
		Cells:    make(map[string]*reactor.Cell[float64], len(s.Cells)),
		Links:    make(map[string]*reactor.Link, len(s.Links)),
		Registry: reactor.NewRegistry(),
	}

	for _, cs := range s.Cells {
		c := reactor.NewCell(cs.Initial)
		g.Cells[cs.Name] = c
		g.Registry.TrackCell(c, cs.Name)
	}

	var buildErr error
	g.EG.Event(func(ctx *reactor.Ctx) {
		for _, ls := range s.Links {
			l, err := registerLink(ctx, g, ls)
			if err != nil {
				buildErr = err
				return
			}
			if ls.Name != "" {
				g.Links[ls.Name] = l
				g.Registry.TrackLink(l, ls.Name)
			}
		}
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return g, nil
}

func registerLink(ctx *reactor.Ctx, g *Graph, ls LinkSpec) (*reactor.Link, error) {
	inputs := make([]reactor.CellHandle, 0, len(ls.Inputs))
	inputCells := make([]*reactor.Cell[float64], 0, len(ls.Inputs))
	for _, name := range ls.Inputs {
		c, ok := g.Cells[name]
		if !ok {
			return nil, fmt.Errorf("scenario: link %s references unknown cell %q", ls.Name, name)
		}
		inputs = append(inputs, c)
		inputCells = append(inputCells, c)
	}

	var output reactor.CellHandle
	var outputCell *reactor.Cell[float64]
	if ls.Output != "" {
		c, ok := g.Cells[ls.Output]
		if !ok {
			return nil, fmt.Errorf("scenario: link %s writes unknown cell %q", ls.Name, ls.Output)
		}
		output = c
		outputCell = c
	}

	apply, err := opFunc(ls)
	if err != nil {
		return nil, err
	}

	return reactor.Register(ctx, inputs, output, func(ctx *reactor.Ctx) {
		if outputCell == nil {
			return
		}
		vals := make([]float64, len(inputCells))
		for i, c := range inputCells {
			vals[i] = c.Get()
		}
		outputCell.Set(ctx, apply(vals))
	}), nil
}

func opFunc(ls LinkSpec) (func(inputs []float64) float64, error) {
	switch ls.Op {
	case OpCopy:
		return func(in []float64) float64 {
			if len(in) == 0 {
				return 0
			}
			return in[0]
		}, nil
	case OpSum:
		return func(in []float64) float64 {
			var total float64
			for _, v := range in {
				total += v
			}
			return total
		}, nil
	case OpProduct:
		return func(in []float64) float64 {
			total := 1.0
			for _, v := range in {
				total *= v
			}
			return total
		}, nil
	case OpIncrement:
		by := ls.Params["by"]
		return func(in []float64) float64 {
			if len(in) == 0 {
				return by
			}
			return in[0] + by
		}, nil
	case OpScale:
		by := ls.Params["by"]
		return func(in []float64) float64 {
			if len(in) == 0 {
				return 0
			}
			return in[0] * by
		}, nil
	default:
		return nil, fmt.Errorf("scenario: link %s has unknown op %q", ls.Name, ls.Op)
	}
}

// RunEvents replays every EventSpec in s against g, in order, each as
// its own event scope.
func RunEvents(g *Graph, s *Scenario) {
	for _, ev := range s.Events {
		ApplyEvent(g, ev)
	}
}

// ApplyEvent replays a single EventSpec against g as one event scope.
func ApplyEvent(g *Graph, ev EventSpec) {
	g.EG.Event(func(ctx *reactor.Ctx) {
		for name, v := range ev.Set {
			if c, ok := g.Cells[name]; ok {
				c.Set(ctx, v)
			}
		}
	})
}
