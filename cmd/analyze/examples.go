package main

import (
	"sort"

	"circuit-sketch/internal/netlist"
)

// examples are the circuits available through -example.
var examples = map[string]func() *netlist.Builder{
	// series RLC driven by a 5 V DC source
	"rlc": func() *netlist.Builder {
		return rlc(netlist.NewBuilder(netlist.DefaultTitle), netlist.DC{})
	},
	"rlc-ac": func() *netlist.Builder {
		return rlc(netlist.NewBuilder("RLC AC response"), netlist.AC{})
	},
	"rlc-pulse": func() *netlist.Builder {
		return rlc(netlist.NewBuilder("RLC step response"), netlist.Pulse{
			Rise: "1e-6", Fall: "1e-6", Width: "1e-3", Period: "2e-3",
		})
	},
	"norton": func() *netlist.Builder {
		return netlist.NewBuilder("Norton source").
			AddCurrentSource("1", "0", "1", "0.01").
			AddResistor("1", "1", "0", "1000")
	},
}

func rlc(b *netlist.Builder, src netlist.Source) *netlist.Builder {
	return b.AddVoltageSource("1", "1", "0", "5", src).
		AddResistor("1", "1", "2", "100").
		AddInductor("1", "2", "3", "0.1").
		AddCapacitor("1", "3", "0", "1e-6")
}

func exampleNames() []string {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
