package catalog

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultProducts returns the built-in catalogue used when no seed file is configured.
func DefaultProducts() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Wireless Headphones", Description: "Premium wireless headphones with noise cancellation and 30-hour battery life", Price: decimal.NewFromInt(2499), Category: "Electronics", ImageURL: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500", Stock: 50, Rating: 4.5, Reviews: 234},
		{ID: 2, Name: "Smart Watch", Description: "Fitness tracker with heart rate monitor and GPS", Price: decimal.NewFromInt(4999), Category: "Electronics", ImageURL: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500", Stock: 30, Rating: 4.7, Reviews: 456},
		{ID: 3, Name: "Running Shoes", Description: "Lightweight running shoes with cushioned sole", Price: decimal.NewFromInt(3499), Category: "Sports", ImageURL: "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=500", Stock: 100, Rating: 4.3, Reviews: 789},
		{ID: 4, Name: "Laptop Backpack", Description: "Water-resistant laptop backpack with USB charging port", Price: decimal.NewFromInt(1299), Category: "Accessories", ImageURL: "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=500", Stock: 75, Rating: 4.6, Reviews: 345},
		{ID: 5, Name: "Coffee Maker", Description: "Programmable coffee maker with thermal carafe", Price: decimal.NewFromInt(2999), Category: "Home", ImageURL: "https://images.unsplash.com/photo-1517668808822-9ebb02f2a0e6?w=500", Stock: 40, Rating: 4.4, Reviews: 567},
		{ID: 6, Name: "Yoga Mat", Description: "Non-slip eco-friendly yoga mat with carrying strap", Price: decimal.NewFromInt(899), Category: "Sports", ImageURL: "https://images.unsplash.com/photo-1601925260368-ae2f83cf8b7f?w=500", Stock: 120, Rating: 4.8, Reviews: 234},
		{ID: 7, Name: "Bluetooth Speaker", Description: "Portable waterproof speaker with 12-hour battery", Price: decimal.NewFromInt(1999), Category: "Electronics", ImageURL: "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=500", Stock: 60, Rating: 4.5, Reviews: 432},
		{ID: 8, Name: "Desk Lamp", Description: "LED desk lamp with adjustable brightness and color temperature", Price: decimal.NewFromInt(1499), Category: "Home", ImageURL: "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=500", Stock: 85, Rating: 4.2, Reviews: 123},
	}
}
