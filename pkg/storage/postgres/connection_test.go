package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReplicaURLs(t *testing.T) {
	assert.Nil(t, ParseReplicaURLs(""))

	urls := ParseReplicaURLs("postgres://replica1/db, postgres://replica2/db")
	assert.Equal(t, []string{"postgres://replica1/db", "postgres://replica2/db"}, urls)

	urls = ParseReplicaURLs("postgres://replica1/db,,  ")
	assert.Equal(t, []string{"postgres://replica1/db"}, urls)
}
