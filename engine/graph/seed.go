package graph

// StarterTriples is the seed data set for a fresh lore graph. Every
// relation is in the default vocabulary; the curated questions all have
// non-empty answers against this set.
var StarterTriples = []Triple{
	{Source: "Black Knights", Relation: "wield", Target: "Black Knight Sword"},
	{Source: "Black Knights", Relation: "wield", Target: "Heavy Black Knight Sword"},
	{Source: "Black Knights", Relation: "faced", Target: "Chaos Demons"},
	{Source: "Black Knights", Relation: "worships", Target: "Gwyn"},

	{Source: "Blood Club", Relation: "is_effective_against", Target: "Most Foes"},
	{Source: "Lightning Broadsword", Relation: "is_effective_against", Target: "Crowds"},

	{Source: "Dark Bastard Sword", Relation: "has_skill", Target: "Stomp"},
	{Source: "Gargoyle Flame Hammer", Relation: "has_skill", Target: "Kindled Flurry"},

	{Source: "Sunset Shield", Relation: "belongs_to", Target: "Sunlight Covenant"},
	{Source: "Poison Black Iron Greatshield", Relation: "forged_from", Target: "Black Iron"},
	{Source: "Grass Crest Shield", Relation: "grants", Target: "Stamina Regeneration"},
	{Source: "Silver Knight Shield", Relation: "resists", Target: "Lightning"},

	{Source: "Black Knight Sword", Relation: "dropped_by", Target: "Black Knights"},
	{Source: "Moonlight Greatsword", Relation: "created_by", Target: "Seath the Scaleless"},
	{Source: "Quelaag's Furysword", Relation: "forged_from", Target: "Chaos Flame"},

	{Source: "Gwyn", Relation: "located_in", Target: "Kiln of the First Flame"},
	{Source: "Seath the Scaleless", Relation: "located_in", Target: "The Duke's Archives"},
	{Source: "Chaos Demons", Relation: "found_in", Target: "Lost Izalith"},
	{Source: "Chaos Demons", Relation: "weak_to", Target: "Lightning"},

	{Source: "Silver Knights", Relation: "guards", Target: "Anor Londo"},
	{Source: "Silver Knights", Relation: "wield", Target: "Silver Knight Spear"},
	{Source: "Witch of Izalith", Relation: "transformed_into", Target: "Bed of Chaos"},
}
