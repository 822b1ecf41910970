package catalog

// discoverSeeds biases the discover grid when the caller sends no
// keyword of their own.
var discoverSeeds = []string{
	"star", "love", "war", "night", "girl", "man", "city", "life", "death", "dark",
	"blue", "red", "king", "queen", "dream", "time", "space", "world", "road", "home",
	"music", "future", "secret", "fight", "crime", "family", "school", "summer", "winter", "doctor",
}

// spotlightSeeds skew toward queries likely to return poster-bearing,
// plot-bearing records for the home page hero.
var spotlightSeeds = []string{
	"classic", "top", "award", "best", "epic", "space", "detective", "romance", "thriller",
}
