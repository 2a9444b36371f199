package memory

import (
	domain "github.com/lowkey-merch/storefront/internal/domain"
)

// DefaultCatalog returns the storefront's full product range: the standard
// line, the numbered limited editions, and the studio collaborations.
func DefaultCatalog() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Anime Hero Tee", Price: "R350", Category: domain.CategoryTees, Anime: "Attack on Titan", Line: domain.LineStandard},
		{ID: "2", Name: "Cozy Otaku Hoodie", Price: "R550", Category: domain.CategoryHoodies, Anime: "Demon Slayer", Line: domain.LineStandard},
		{ID: "3", Name: "Epic Battle Poster", Price: "R200", Category: domain.CategoryPosters, Anime: "Naruto", Line: domain.LineStandard},
		{ID: "4", Name: "Gaming Mousepad", Price: "R420", Category: domain.CategoryMousepads, Anime: "One Piece", Line: domain.LineStandard},
		{ID: "5", Name: "Kawaii Cat Tee", Price: "R350", Category: domain.CategoryTees, Anime: "Studio Ghibli", Line: domain.LineStandard},
		{ID: "6", Name: "Dragon Hoodie", Price: "R550", Category: domain.CategoryHoodies, Anime: "Dragon Ball Z", Line: domain.LineStandard},
		{ID: "7", Name: "Minimalist Poster", Price: "R200", Category: domain.CategoryPosters, Anime: "Death Note", Line: domain.LineStandard},
		{ID: "8", Name: "RGB Mousepad", Price: "R420", Category: domain.CategoryMousepads, Anime: "Tokyo Ghoul", Line: domain.LineStandard},
		{ID: "9", Name: "Vintage Anime Tee", Price: "R350", Category: domain.CategoryTees, Anime: "Cowboy Bebop", Line: domain.LineStandard},

		{ID: "l1", Name: "Golden Saiyan Hoodie", Price: "R800", Category: domain.CategoryHoodies, Anime: "Dragon Ball Z", Line: domain.LineLimited, Rarity: "Ultra Rare", Stock: &domain.StockLevel{Remaining: 3, Total: 50}, Description: "Ultra-rare limited edition hoodie featuring Goku's legendary Super Saiyan transformation."},
		{ID: "l2", Name: "Akatsuki Cloud Tee", Price: "R500", Category: domain.CategoryTees, Anime: "Naruto", Line: domain.LineLimited, Rarity: "Rare", Stock: &domain.StockLevel{Remaining: 12, Total: 100}, Description: "Rare design featuring the iconic Akatsuki cloud pattern."},
		{ID: "l3", Name: "Titan Shift Poster", Price: "R300", Category: domain.CategoryPosters, Anime: "Attack on Titan", Line: domain.LineLimited, Rarity: "Limited", Stock: &domain.StockLevel{Remaining: 7, Total: 25}, Description: "Limited edition poster showcasing the epic titan transformation scenes."},
		{ID: "l4", Name: "Demon Slayer Mousepad", Price: "R500", Category: domain.CategoryMousepads, Anime: "Demon Slayer", Line: domain.LineLimited, Rarity: "Special", Stock: &domain.StockLevel{Remaining: 18, Total: 75}, Description: "Special edition mousepad featuring Tanjiro's breathing techniques."},
		{ID: "l5", Name: "Studio Ghibli Hoodie", Price: "R750", Category: domain.CategoryHoodies, Anime: "Studio Ghibli", Line: domain.LineLimited, Rarity: "Collector", Stock: &domain.StockLevel{Remaining: 5, Total: 30}, Description: "Collector's edition hoodie celebrating the magical world of Studio Ghibli."},
		{ID: "l6", Name: "One Piece Treasure Tee", Price: "R450", Category: domain.CategoryTees, Anime: "One Piece", Line: domain.LineLimited, Rarity: "Limited", Stock: &domain.StockLevel{Remaining: 23, Total: 150}, Description: "Limited edition tee featuring the Straw Hat Pirates' treasure hunt."},

		{ID: "c1", Name: "MAPPA x Lowkey Eren Hoodie", Price: "R550", Category: domain.CategoryHoodies, Anime: "Attack on Titan", Line: domain.LineCollab, CollabType: "Official Collab", Description: "Official collaboration with Studio MAPPA featuring Eren's final form."},
		{ID: "c2", Name: "Toei x Lowkey Luffy Tee", Price: "R420", Category: domain.CategoryTees, Anime: "One Piece", Line: domain.LineCollab, CollabType: "Movie Exclusive", Description: "Exclusive Film Red merchandise featuring Luffy's Gear 5 form."},
		{ID: "c3", Name: "WIT Studio Levi Poster", Price: "R260", Category: domain.CategoryPosters, Anime: "Attack on Titan", Line: domain.LineCollab, CollabType: "Artist Series", Description: "Artist series poster celebrating WIT Studio's iconic Levi scenes."},
	}
}
