package client_test

import (
	"context"
	"fmt"

	"github.com/daniacca/rnaworld/pkg/client"
)

func ExampleParamsBuilder() {
	params := client.NewParams().
		Capacity(200).
		ReplicationRates(0.1, 0.3).
		CatalyticMotif("GGAAG")

	cfg := params.Build()
	fmt.Printf("Capacity: %d\n", *cfg.Capacity)
	fmt.Printf("Catalytic rate: %.1f\n", *cfg.CatalyticReplicationRate)
	fmt.Printf("Mutation rate set: %t\n", cfg.MutationRate != nil)
	// Output:
	// Capacity: 200
	// Catalytic rate: 0.3
	// Mutation rate set: false
}

func ExampleApplyParams() {
	ctx := context.Background()
	params := client.NewParams().MutationRate(0.05)

	// This would send the params to the server
	// Uncomment to actually send:
	// p, err := client.ApplyParams(ctx, "http://localhost:8080", "default", params)
	// if err != nil {
	// 	log.Fatal(err)
	// }

	_ = ctx
	_ = params
}

func ExampleNotificationBuilder() {
	cfg := client.NewNotification().
		Notifiers("ws").
		Every(10).
		Build()

	fmt.Println(cfg.Enabled, cfg.Notifiers, cfg.EveryNTicks)
	// Output: true [ws] 10
}
