package topo

import "github.com/topofab/topofab/config"

func intArray(values []int) config.Value {
	items := make([]config.Value, len(values))
	for i, v := range values {
		items[i] = config.NewNumber(float64(v))
	}
	return config.NewArray(items)
}

func meshConfig(sides []int, serversPerRouter int) config.Value {
	return config.NewObject("Mesh", []config.Field{
		{Name: "sides", Value: intArray(sides)},
		{Name: "servers_per_router", Value: config.NewNumber(float64(serversPerRouter))},
	})
}

func torusConfig(sides []int, serversPerRouter int) config.Value {
	return config.NewObject("Torus", []config.Field{
		{Name: "sides", Value: intArray(sides)},
		{Name: "servers_per_router", Value: config.NewNumber(float64(serversPerRouter))},
	})
}

func hammingConfig(sides []int, serversPerRouter int) config.Value {
	return config.NewObject("Hamming", []config.Field{
		{Name: "sides", Value: intArray(sides)},
		{Name: "servers_per_router", Value: config.NewNumber(float64(serversPerRouter))},
	})
}

func dragonflyConfig(h, serversPerRouter int) config.Value {
	return config.NewObject("CanonicDragonfly", []config.Field{
		{Name: "global_ports_per_router", Value: config.NewNumber(float64(h))},
		{Name: "servers_per_router", Value: config.NewNumber(float64(serversPerRouter))},
	})
}

func projectiveConfig(prime, serversPerRouter int) config.Value {
	return config.NewObject("Projective", []config.Field{
		{Name: "prime", Value: config.NewNumber(float64(prime))},
		{Name: "servers_per_router", Value: config.NewNumber(float64(serversPerRouter))},
	})
}

func leviProjectiveConfig(prime, serversPerRouter int) config.Value {
	return config.NewObject("LeviProjective", []config.Field{
		{Name: "prime", Value: config.NewNumber(float64(prime))},
		{Name: "servers_per_router", Value: config.NewNumber(float64(serversPerRouter))},
	})
}

func slimFlyConfig(prime, primitive, serversPerRouter int) config.Value {
	fields := []config.Field{
		{Name: "prime", Value: config.NewNumber(float64(prime))},
		{Name: "servers_per_router", Value: config.NewNumber(float64(serversPerRouter))},
	}
	if primitive > 0 {
		fields = append(fields, config.Field{Name: "primitive", Value: config.NewNumber(float64(primitive))})
	}
	return config.NewObject("SlimFly", fields)
}

func randomRegularConfig(routers, degree, serversPerRouter int) config.Value {
	return config.NewObject("RandomRegularGraph", []config.Field{
		{Name: "routers", Value: config.NewNumber(float64(routers))},
		{Name: "degree", Value: config.NewNumber(float64(degree))},
		{Name: "servers_per_router", Value: config.NewNumber(float64(serversPerRouter))},
	})
}

func fileTopologyConfig(contents string, serversPerRouter int) config.Value {
	return config.NewObject("File", []config.Field{
		{Name: "contents", Value: config.NewLiteral(contents)},
		{Name: "servers_per_router", Value: config.NewNumber(float64(serversPerRouter))},
	})
}

func dorConfig(order []int) config.Value {
	return config.NewObject("DOR", []config.Field{
		{Name: "order", Value: intArray(order)},
	})
}

func valiantDORConfig(randomized, shortest, randomizedVCs, shortestVCs []int) config.Value {
	return config.NewObject("ValiantDOR", []config.Field{
		{Name: "randomized", Value: intArray(randomized)},
		{Name: "shortest", Value: intArray(shortest)},
		{Name: "randomized_reserved_vcs", Value: intArray(randomizedVCs)},
		{Name: "shortest_reserved_vcs", Value: intArray(shortestVCs)},
	})
}

func valiantConfig(first, second config.Value) config.Value {
	return config.NewObject("Valiant", []config.Field{
		{Name: "first", Value: first},
		{Name: "second", Value: second},
	})
}

func shortestConfig() config.Value {
	return config.NewObject("Shortest", nil)
}

func sourceRoutingConfig() config.Value {
	return config.NewObject("SourceRouting", nil)
}

func weighedShortestConfig(weights []int) config.Value {
	return config.NewObject("WeighedShortest", []config.Field{
		{Name: "class_weight", Value: intArray(weights)},
	})
}
