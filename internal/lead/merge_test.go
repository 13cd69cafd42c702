package lead

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestMergeFillsEmptyFields(t *testing.T) {
	current := Snapshot{Name: "Maria"}
	update := Partial{
		Email:   strPtr("maria@acme.com"),
		Company: strPtr("Acme"),
	}

	merged := Merge(current, update)

	assert.Equal(t, "Maria", merged.Name)
	assert.Equal(t, "maria@acme.com", merged.Email)
	assert.Equal(t, "Acme", merged.Company)
	assert.False(t, merged.InterestConfirmed)
}

func TestMergeNonEmptyUpdateWins(t *testing.T) {
	current := Snapshot{Name: "Maria", Email: "old@acme.com"}
	update := Partial{Email: strPtr("new@acme.com")}

	merged := Merge(current, update)

	assert.Equal(t, "new@acme.com", merged.Email)
	assert.Equal(t, "Maria", merged.Name)
}

func TestMergeNilAndEmptyNeverErase(t *testing.T) {
	current := Snapshot{
		Name:    "Maria",
		Email:   "maria@acme.com",
		Company: "Acme",
		Phone:   "+55 11 99999-0000",
	}
	update := Partial{
		Name:  nil,
		Email: strPtr(""),
	}

	merged := Merge(current, update)

	assert.Equal(t, current, merged)
}

func TestMergeInterestConfirmedIsSticky(t *testing.T) {
	current := Snapshot{InterestConfirmed: true}

	merged := Merge(current, Partial{InterestConfirmed: boolPtr(false)})
	assert.True(t, merged.InterestConfirmed)

	merged = Merge(current, Partial{})
	assert.True(t, merged.InterestConfirmed)

	merged = Merge(Snapshot{}, Partial{InterestConfirmed: boolPtr(true)})
	assert.True(t, merged.InterestConfirmed)
}

func TestMergeIdempotent(t *testing.T) {
	current := Snapshot{Name: "Maria"}
	update := Partial{
		Email:             strPtr("maria@acme.com"),
		InterestConfirmed: boolPtr(true),
	}

	once := Merge(current, update)
	twice := Merge(once, update)

	assert.Equal(t, once, twice)
}

func TestSnapshotComplete(t *testing.T) {
	assert.False(t, Snapshot{}.Complete())
	assert.False(t, Snapshot{Name: "Maria"}.Complete())
	assert.False(t, Snapshot{Email: "maria@acme.com"}.Complete())
	assert.True(t, Snapshot{Name: "Maria", Email: "maria@acme.com"}.Complete())
}

func TestParsePartialNormalizes(t *testing.T) {
	raw := []byte(`{
		"name": "  Maria Silva  ",
		"email": " Maria@Acme.COM ",
		"company": "",
		"interest_confirmed": true,
		"unknown_key": "ignored"
	}`)

	p, err := ParsePartial(raw)
	assert.NoError(t, err)
	assert.Equal(t, "Maria Silva", *p.Name)
	assert.Equal(t, "maria@acme.com", *p.Email)
	assert.Nil(t, p.Company)
	assert.True(t, *p.InterestConfirmed)
}

func TestParsePartialDropsMalformedEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"no at sign", "maria.acme.com"},
		{"no domain dot", "maria@acme"},
		{"leading at", "@acme.com"},
		{"trailing at", "maria@"},
		{"embedded space", "maria silva@acme.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePartial([]byte(`{"email": "` + tt.email + `"}`))
			assert.NoError(t, err)
			assert.Nil(t, p.Email)
		})
	}
}

func TestParsePartialCapKeepsValidUTF8(t *testing.T) {
	// An accented rune straddling the cap must be dropped whole, not split.
	long := strings.Repeat("a", maxFieldLen-1) + "éé"
	p, err := ParsePartial([]byte(`{"need": "` + long + `"}`))
	assert.NoError(t, err)
	assert.True(t, utf8.ValidString(*p.Need))
	assert.Equal(t, strings.Repeat("a", maxFieldLen-1), *p.Need)

	// A cap landing exactly on a rune boundary keeps the full prefix.
	p, err = ParsePartial([]byte(`{"need": "` + strings.Repeat("é", maxFieldLen/2+1) + `"}`))
	assert.NoError(t, err)
	assert.True(t, utf8.ValidString(*p.Need))
	assert.Equal(t, strings.Repeat("é", maxFieldLen/2), *p.Need)
}

func TestParsePartialRejectsNonJSON(t *testing.T) {
	_, err := ParsePartial([]byte("not json at all"))
	assert.Error(t, err)
}
