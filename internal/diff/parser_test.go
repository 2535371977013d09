package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statematch/statematch/internal/ir"
)

func TestParse_Insert(t *testing.T) {
	result := Parse(`INSERT INTO foo(id,name) VALUES(1,'bar');`)

	require.Len(t, result.Mutations, 1)
	assert.Equal(t, 0, result.Dropped)
	assert.Equal(t, Mutation{
		Table:  "foo",
		Method: MethodInsert,
		Record: ir.Object{"id": ir.Number(1), "name": ir.String("bar")},
	}, result.Mutations[0])
}

func TestParse_Update(t *testing.T) {
	result := Parse(`UPDATE foo SET name='baz' WHERE id=1;`)

	require.Len(t, result.Mutations, 1)
	assert.Equal(t, Mutation{
		Table:  "foo",
		Method: MethodUpdate,
		Where:  ir.Object{"id": ir.Number(1)},
		Record: ir.Object{"name": ir.String("baz")},
	}, result.Mutations[0])
}

func TestParse_Delete(t *testing.T) {
	result := Parse(`DELETE FROM foo WHERE id=1;`)

	require.Len(t, result.Mutations, 1)
	assert.Equal(t, Mutation{
		Table:  "foo",
		Method: MethodDelete,
		Where:  ir.Object{"id": ir.Number(1)},
	}, result.Mutations[0])
}

func TestParse_MultipleStatementsKeepOrder(t *testing.T) {
	text := `INSERT INTO users(id) VALUES(1);
UPDATE users SET name='ada' WHERE id=1;
DELETE FROM sessions WHERE user_id=1;`

	result := Parse(text)

	require.Len(t, result.Mutations, 3)
	assert.Equal(t, MethodInsert, result.Mutations[0].Method)
	assert.Equal(t, MethodUpdate, result.Mutations[1].Method)
	assert.Equal(t, MethodDelete, result.Mutations[2].Method)
	assert.Equal(t, "sessions", result.Mutations[2].Table)
}

func TestParse_QuotedCommaInValues(t *testing.T) {
	result := Parse(`INSERT INTO books(id,title) VALUES(7,'war, and peace');`)

	require.Len(t, result.Mutations, 1)
	assert.Equal(t, ir.Object{
		"id":    ir.Number(7),
		"title": ir.String("war, and peace"),
	}, result.Mutations[0].Record)
}

func TestParse_ValueTokens(t *testing.T) {
	result := Parse(`INSERT INTO t(a,b,c,d,e) VALUES(NULL,'x',3.5,-2,raw);`)

	require.Len(t, result.Mutations, 1)
	assert.Equal(t, ir.Object{
		"a": ir.Null{},
		"b": ir.String("x"),
		"c": ir.Number(3.5),
		"d": ir.Number(-2),
		"e": ir.String("raw"),
	}, result.Mutations[0].Record)
}

func TestParse_MultiConditionWhere(t *testing.T) {
	result := Parse(`UPDATE t SET a=1 WHERE b=2 AND c='x';`)

	require.Len(t, result.Mutations, 1)
	assert.Equal(t, ir.Object{
		"b": ir.Number(2),
		"c": ir.String("x"),
	}, result.Mutations[0].Where)
}

func TestParse_DropsUnrecognizedStatements(t *testing.T) {
	text := `CREATE TABLE foo(id INTEGER);
INSERT INTO foo(id) VALUES(1);
garbage statement;
DELETE FROM foo;`

	result := Parse(text)

	require.Len(t, result.Mutations, 1, "only the insert parses")
	assert.Equal(t, 3, result.Dropped, "create, garbage, and where-less delete all drop")
}

func TestParse_StructuralFailureDrops(t *testing.T) {
	// SET fragment without "=" fails the statement, not just the pair
	result := Parse(`UPDATE foo SET name WHERE id=1;`)

	assert.Empty(t, result.Mutations)
	assert.Equal(t, 1, result.Dropped)
}

func TestParse_EmptyAndWhitespaceInput(t *testing.T) {
	assert.Empty(t, Parse("").Mutations)
	assert.Empty(t, Parse(" \n\t ").Mutations)
	assert.Equal(t, 0, Parse(";;;").Dropped, "empty fragments are discarded, not dropped")
}

func TestParse_InsertColumnValueZip(t *testing.T) {
	// Surplus values are ignored, zip-style
	result := Parse(`INSERT INTO t(a,b) VALUES(1,2,3);`)

	require.Len(t, result.Mutations, 1)
	assert.Equal(t, ir.Object{"a": ir.Number(1), "b": ir.Number(2)}, result.Mutations[0].Record)
}

func TestParse_WhitespaceTolerance(t *testing.T) {
	result := Parse("INSERT INTO  foo (id, name)  VALUES (1, 'bar');")

	require.Len(t, result.Mutations, 1)
	assert.Equal(t, ir.Object{"id": ir.Number(1), "name": ir.String("bar")}, result.Mutations[0].Record)
}
