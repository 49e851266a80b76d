// seed writes the built-in catalog and an empty user directory into the
// configured store, leaving existing data alone. Pass -force to replace the
// catalog.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/ErlanBelekov/voltforge-storefront/config"
	"github.com/ErlanBelekov/voltforge-storefront/internal/catalog"
	"github.com/ErlanBelekov/voltforge-storefront/internal/infrastructure"
	"github.com/ErlanBelekov/voltforge-storefront/internal/store"
)

func main() {
	force := flag.Bool("force", false, "overwrite the stored catalog")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.StoreBackend == "memory" {
		log.Fatal("STORE_BACKEND=memory does not persist; set postgres or redis")
	}

	kv, closeKV, err := infrastructure.OpenKV(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeKV()

	st := store.New(kv)
	products := catalog.Products()

	if *force {
		if err := st.Shared().Set(ctx, store.KeyProducts, products); err != nil {
			log.Fatalf("write catalog: %v", err)
		}
		fmt.Printf("catalog replaced: %d products\n", len(products))
	}

	seeded, err := st.Seed(ctx, products)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	switch {
	case seeded:
		fmt.Printf("catalog seeded: %d products\n", len(products))
	case !*force:
		fmt.Println("catalog already present, nothing to do")
	}
	fmt.Printf("\nBackend: %s\n", cfg.StoreBackend)
}
