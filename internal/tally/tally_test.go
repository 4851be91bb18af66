package tally

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_MostCommon_TiesKeepFirstSeenOrder(t *testing.T) {
	c := New()
	c.Add("#b", "#a", "#c", "#a", "#d", "#c")

	got := c.MostCommon(0)
	assert.Equal(t, Table{
		{"#a", 2},
		{"#c", 2},
		{"#b", 1},
		{"#d", 1},
	}, got)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 6, c.Total())
	assert.Equal(t, 2, c.Count("#a"))
	assert.Equal(t, 0, c.Count("#zzz"))
}

func TestCounter_MostCommon_Caps(t *testing.T) {
	c := New()
	for i := 0; i < 30; i++ {
		c.Add(fmt.Sprintf("k%02d", i))
	}

	got := c.MostCommon(20)
	require.Len(t, got, 20)
	assert.Equal(t, "k00", got[0].Key)
	assert.Equal(t, "k19", got[19].Key)
	for _, e := range got {
		assert.Positive(t, e.Count)
	}
}

func TestCounter_Empty(t *testing.T) {
	c := New()
	assert.Empty(t, c.MostCommon(20))
	assert.Equal(t, 0, c.Total())
}

func TestTable_JSONPreservesOrder(t *testing.T) {
	table := Table{{"#zeta", 3}, {"#alpha", 1}}

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{"#zeta":3,"#alpha":1}`, string(data))

	var back Table
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, table, back)
}

func TestTable_EmptyJSON(t *testing.T) {
	data, err := json.Marshal(Table{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	var back Table
	require.NoError(t, json.Unmarshal([]byte(`{}`), &back))
	assert.Empty(t, back)
}

func TestTable_UnmarshalRejectsArrays(t *testing.T) {
	var back Table
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &back))
}

func TestTable_Helpers(t *testing.T) {
	table := Table{{"order", 2}, {"visit", 1}}
	assert.Equal(t, 3, table.Total())
	assert.Equal(t, []string{"order", "visit"}, table.Keys())

	n, ok := table.Get("visit")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = table.Get("dm")
	assert.False(t, ok)
}

func TestMean(t *testing.T) {
	assert.Nil(t, Mean(nil))

	got := Mean([]int{1, 2})
	require.NotNil(t, got)
	assert.Equal(t, 1.5, *got)

	got = Mean([]int{1, 1, 2})
	require.NotNil(t, got)
	assert.Equal(t, 1.33, *got)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.3333, Round(1.0/3.0, 4))
	assert.Equal(t, 2.0, Round(1.999, 2))
	assert.Equal(t, 0.0, Round(0, 2))
}
