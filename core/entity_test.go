package core

import (
	"math"
	"testing"
)

func TestPost_PopularityScore(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want float64
	}{
		{
			name: "zero counters",
			post: Post{},
			want: 0,
		},
		{
			name: "weighted blend",
			post: Post{ViewCount: 100, UpvoteCount: 50, AverageRating: 90, ShareCount: 10},
			// 0.1*100 + 0.3*50 + 0.2*90 + 0.4*10
			want: 47,
		},
		{
			name: "shares dominate",
			post: Post{ShareCount: 100},
			want: 40,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.post.PopularityScore()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PopularityScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInteraction_Weight(t *testing.T) {
	tests := []struct {
		name string
		iv   Interaction
		want float64
	}{
		{name: "view carries no weight", iv: Interaction{Kind: InteractionView}, want: 0},
		{name: "like", iv: Interaction{Kind: InteractionLike}, want: 1.5},
		{name: "inspire", iv: Interaction{Kind: InteractionInspire}, want: 1.5},
		{name: "full rating", iv: Interaction{Kind: InteractionRating, RatingPercent: 100}, want: 2.0},
		{name: "half rating", iv: Interaction{Kind: InteractionRating, RatingPercent: 50}, want: 1.0},
		{name: "zero rating", iv: Interaction{Kind: InteractionRating, RatingPercent: 0}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.iv.Weight(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Weight() = %v, want %v", got, tt.want)
			}
		})
	}
}
