package resolver

// SuggestedQuestions is the fixed picklist offered to the user. Each
// entry has a curated query and a curated interpretation.
var SuggestedQuestions = []string{
	"Which weapons are wielded by Black Knights?",
	"What weapons are effective against specific enemy types?",
	"What skills are associated with specific weapons?",
	"What properties or affiliations do shields reveal?",
	"Who are the Black Knights related to?",
}

// curatedQueries maps normalized questions to hand-written Cypher.
var curatedQueries = map[string]string{
	"Which weapons are wielded by Black Knights?": `MATCH (e1:Entity {id: 'Black Knights'})-[:wield]->(e2:Entity)
RETURN e2.id AS source, 'wield' AS relation, e1.id AS target
ORDER BY source`,

	"What weapons are effective against specific enemy types?": `MATCH (w:Entity)-[:is_effective_against]->(e:Entity)
RETURN w.id AS source, 'is_effective_against' AS relation, e.id AS target`,

	"What skills are associated with specific weapons?": `MATCH (s:Entity)-[:has_skill]->(k:Entity)
RETURN s.id AS source, 'has_skill' AS relation, k.id AS target
ORDER BY source`,

	"What properties or affiliations do shields reveal?": `MATCH (s:Entity)-[r]->(e:Entity)
WHERE toLower(s.id) CONTAINS "shield"
RETURN s.id AS source, type(r) AS relation, e.id AS target
ORDER BY relation`,

	"Who are the Black Knights related to?": `MATCH (e1:Entity {id: 'Black Knights'})-[r]->(e2:Entity)
RETURN e1.id AS source, type(r) AS relation, e2.id AS target`,
}

// curatedInterpretations maps normalized questions to hand-written prose.
var curatedInterpretations = map[string]string{
	"Which weapons are wielded by Black Knights?": "The Black Knights wield two notable weapons: the Black Knight Sword and the Heavy Black Knight Sword. " +
		"These weapons emphasize their brutal and imposing combat style, aligning with their fearsome reputation in the lore.",

	"What weapons are effective against specific enemy types?": "The Blood Club is effective against most foes, indicating its versatility in battle. " +
		"The Lightning Broadsword is particularly effective against crowds, suggesting it excels in encounters with multiple enemies.",

	"What skills are associated with specific weapons?": "Two weapons have explicit skills: the Dark Bastard Sword is associated with Stomp, " +
		"while the Gargoyle Flame Hammer has the Kindled Flurry skill. " +
		"These pairings highlight unique combat mechanics tied to specific gear.",

	"What properties or affiliations do shields reveal?": "Shields reflect diverse attributes. " +
		"Greatshields offer high stability and absorption, while small shields excel at parrying. " +
		"Some shields are tied to factions or figures, like the Sunset Shield and the Poison Black Iron Greatshield. " +
		"Others are engraved, decorated, or made from rare materials, even carrying symbolic commentary like ridicule or shame.",

	"Who are the Black Knights related to?": "The Black Knights are linked to chaos demons and weapons like the Black Knight Sword. " +
		"They are described as charred and constantly facing larger foes, painting a picture of relentless battle and tragedy. " +
		"These relationships reinforce their role as elite warriors shaped by fire and war.",
}
