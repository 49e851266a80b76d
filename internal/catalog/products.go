// Package catalog holds the built-in VoltForge product range seeded into the
// shared namespace on first run.
package catalog

import "github.com/ErlanBelekov/voltforge-storefront/internal/domain"

func price(v float64) *float64 { return &v }

// Products returns a fresh copy of the seed catalog.
func Products() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Name:        "NVIDIA RTX 4080 — Phantom",
			Price:       1199,
			OldPrice:    price(1399),
			Category:    "GPU",
			Image:       "images/dao-hi-u-3UAiwOgoSnE-unsplash.jpg",
			Description: "High-performance graphics card with ray tracing technology and AI-powered features for the ultimate gaming experience. Features 16GB GDDR6X memory, DLSS 3.0, and advanced cooling system.",
		},
		{
			ID:          "2",
			Name:        "UltraFast 240Hz OLED Monitor",
			Price:       699,
			OldPrice:    price(799),
			Category:    "Monitor",
			Image:       "images/mohammadreza-alidoost-8XrE7Kp7FNw-unsplash.jpg",
			Description: "Crystal-clear OLED display with 240Hz refresh rate for buttery-smooth gameplay and vibrant colors. 27-inch 4K resolution with HDR support and 1ms response time.",
		},
		{
			ID:          "3",
			Name:        "ProSurge Wireless Headset",
			Price:       199,
			OldPrice:    price(249),
			Category:    "Headset",
			Image:       "images/wu-yi-rNCoW7s8oHE-unsplash.jpg",
			Description: "Premium wireless gaming headset with 7.1 surround sound and noise-cancelling microphone. Features 30-hour battery life, RGB lighting, and memory foam ear cushions.",
		},
		{
			ID:          "4",
			Name:        "RGB Mechanical Keyboard",
			Price:       149,
			OldPrice:    price(179),
			Category:    "Keyboard",
			Image:       "images/samsul-NsAGCQU3s7E-unsplash.jpg",
			Description: "Mechanical gaming keyboard with customizable RGB lighting and responsive switches. Full anti-ghosting, dedicated media controls, and detachable wrist rest.",
		},
		{
			ID:          "5",
			Name:        "NextGen Console Bundle",
			Price:       499,
			OldPrice:    price(549),
			Category:    "Console",
			Image:       "images/nikolai-chernichenko-YLDaaA-R3l0-unsplash.jpg",
			Description: "Next-generation gaming console bundle including controller and popular game title. 1TB SSD storage, 4K gaming support, and backward compatibility.",
		},
		{
			ID:          "6",
			Name:        "Gaming Laptop — 32GB",
			Price:       1299,
			OldPrice:    price(1499),
			Category:    "Laptop",
			Image:       "images/taylor-r-5Mw0JlOjtTc-unsplash.jpg",
			Description: "Powerful gaming laptop with 32GB RAM, high-end GPU, and fast SSD storage. 15.6-inch 144Hz display, RGB keyboard, and advanced cooling system.",
		},
		{
			ID:          "7",
			Name:        "Precision Wireless Controller",
			Price:       79,
			OldPrice:    price(99),
			Category:    "Controller",
			Image:       "images/ryan-quintal-sYY94OQzOmw-unsplash.jpg",
			Description: "Ergonomic wireless controller with precision analog sticks and customizable buttons. Features haptic feedback, 40-hour battery life, and customizable RGB.",
		},
		{
			ID:          "8",
			Name:        "ErgoPro Gaming Chair",
			Price:       249,
			OldPrice:    price(299),
			Category:    "Chair",
			Image:       "images/kadyn-pierce-PruhDU1m1Yk-unsplash.jpg",
			Description: "Ergonomic gaming chair with lumbar support, adjustable armrests, and premium materials. 4D adjustable, high-density foam, and premium PU leather.",
		},
	}
}
