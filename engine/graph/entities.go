package graph

import (
	"github.com/loregraph/loregraph/pkg/repo"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Entity is a node of the lore graph. Entities carry only an identifier;
// everything else lives on the edges.
type Entity struct {
	ID string `json:"id"`
}

// NewEntityRepo creates a read repository over Entity nodes.
func NewEntityRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[Entity, string] {
	return repo.NewNeo4jRepo[Entity, string](driver, "Entity", entityFromRecord)
}

func entityFromRecord(rec *neo4j.Record) (Entity, error) {
	node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
	if err != nil {
		return Entity{}, err
	}
	id, _ := node.Props["id"].(string)
	return Entity{ID: id}, nil
}
