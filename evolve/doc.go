// Package evolve trains fixed-architecture feedforward networks with a genetic
// algorithm instead of gradient descent.
//
// A population of independently initialized networks is scored by a fitness
// function, winnowed by a SelectionPolicy and repopulated through crossover and
// mutation. The engine has no termination criterion of its own: the caller runs a
// fixed number of generations and then extracts the fittest network.
//
// Basic usage:
//
//	// Load configuration
//	config, err := evolve.LoadConfig("configs/mnist-config")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Create a new population
//	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
//	pop, err := evolve.NewPopulation(config, rng, logger)
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	// Score networks by accuracy on the first samples of a dataset
//	fitness, err := evolve.AccuracyFitness(dataset, config.Fitness.SampleSize)
//	if err != nil {
//		log.Fatalf("Error building fitness function: %v", err)
//	}
//
//	if err := pop.Run(fitness, nil); err != nil {
//		log.Fatalf("Error running evolution: %v", err)
//	}
//	best, err := pop.Champion(fitness)
package evolve
