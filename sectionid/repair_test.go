package sectionid_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/doxprep/sectionid"
	"go.jacobcolvin.com/doxprep/stringtest"
)

var exampleXML = stringtest.Input(`
	<?xml version='1.0' encoding='UTF-8' standalone='no'?>
	<doxygen version="1.9.1">
	  <compounddef id="myfile_8ino-example" kind="example">
	    <compoundname>myfile.ino</compoundname>
	    <detaileddescription>
	      <sect1 id="otherfile_8dox_exampleSectionX">
	        <title>Section X</title>
	        <sect2 id="myfile_8ino-example_already_fine">
	          <title>Fine</title>
	        </sect2>
	        <sect2 id="otherfile_8dox_nested">
	          <title>Nested</title>
	        </sect2>
	      </sect1>
	    </detaileddescription>
	  </compounddef>
	</doxygen>
`)

func readDoc(t *testing.T, data string) *etree.Document {
	t.Helper()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(data))

	return doc
}

func sectionIDs(doc *etree.Document, level string) []string {
	var ids []string
	for _, el := range doc.FindElements("//" + level) {
		ids = append(ids, el.SelectAttrValue("id", ""))
	}

	return ids
}

func TestRepair(t *testing.T) {
	t.Parallel()

	doc := readDoc(t, exampleXML)

	res, err := sectionid.New().Repair(doc)
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, []sectionid.Fix{
		{
			CompoundID: "myfile_8ino-example",
			OldID:      "otherfile_8dox_exampleSectionX",
			NewID:      "myfile_8ino-example_exampleSectionX",
			Level:      1,
		},
		{
			CompoundID: "myfile_8ino-example",
			OldID:      "otherfile_8dox_nested",
			NewID:      "myfile_8ino-example_nested",
			Level:      2,
		},
	}, res.Fixes)

	assert.Equal(t, []string{"myfile_8ino-example_exampleSectionX"}, sectionIDs(doc, "sect1"))
	assert.Equal(t, []string{
		"myfile_8ino-example_already_fine",
		"myfile_8ino-example_nested",
	}, sectionIDs(doc, "sect2"))
}

func TestRepairCases(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		opts    []sectionid.Option
		want    map[string][]string
		changed bool
	}{
		"misplaced id is namespaced": {
			input: `<doxygen><compounddef id="myfile_8ino-example">` +
				`<sect0 id="otherfile_8dox_exampleSectionX"/></compounddef></doxygen>`,
			want:    map[string][]string{"sect0": {"myfile_8ino-example_exampleSectionX"}},
			changed: true,
		},
		"correct ids untouched": {
			input: `<doxygen><compounddef id="a_8ino-example">` +
				`<sect3 id="a_8ino-example_deep"/></compounddef></doxygen>`,
			want:    map[string][]string{"sect3": {"a_8ino-example_deep"}},
			changed: false,
		},
		"compounds are independent": {
			input: `<doxygen>` +
				`<compounddef id="a_8ino-example"><sect1 id="a_8ino-example_x"/></compounddef>` +
				`<compounddef id="b_8ino-example"><sect1 id="b_8dox_y"/></compounddef>` +
				`</doxygen>`,
			want:    map[string][]string{"sect1": {"a_8ino-example_x", "b_8ino-example_y"}},
			changed: true,
		},
		"all six levels are inspected": {
			input:   `<doxygen><compounddef id="c"><sect5 id="x_8dox_five"/></compounddef></doxygen>`,
			want:    map[string][]string{"sect5": {"c_five"}},
			changed: true,
		},
		"levels above max are ignored": {
			input:   `<doxygen><compounddef id="c"><sect2 id="x_8dox_two"/></compounddef></doxygen>`,
			opts:    []sectionid.Option{sectionid.WithMaxLevel(1)},
			want:    map[string][]string{"sect2": {"x_8dox_two"}},
			changed: false,
		},
		"custom marker": {
			input:   `<doxygen><compounddef id="c"><sect1 id="readme_8md_intro"/></compounddef></doxygen>`,
			opts:    []sectionid.Option{sectionid.WithMarker("_8md_")},
			want:    map[string][]string{"sect1": {"c_intro"}},
			changed: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := readDoc(t, tc.input)

			res, err := sectionid.New(tc.opts...).Repair(doc)
			require.NoError(t, err)
			assert.Equal(t, tc.changed, res.Changed)
			assert.Equal(t, tc.changed, len(res.Fixes) > 0)

			for level, ids := range tc.want {
				assert.Equal(t, ids, sectionIDs(doc, level), level)
			}
		})
	}
}

func TestRepairMalformed(t *testing.T) {
	t.Parallel()

	input := `<doxygen><compounddef id="c">` +
		`<sect1 id="x_8dox_fixable"/>` +
		`<sect2 id="no_marker_here"/>` +
		`</compounddef></doxygen>`

	doc := readDoc(t, input)

	res, err := sectionid.New().Repair(doc)
	require.ErrorIs(t, err, sectionid.ErrMissingMarker)
	assert.False(t, res.Changed)

	var malformed *sectionid.MalformedIDError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "c", malformed.CompoundID)
	assert.Equal(t, "no_marker_here", malformed.SectionID)
	assert.Equal(t, 2, malformed.Level)
	assert.ErrorContains(t, err, `"no_marker_here"`)

	// Nothing is rewritten when any id is malformed.
	assert.Equal(t, []string{"x_8dox_fixable"}, sectionIDs(doc, "sect1"))
}

func TestRepairMissingCompoundID(t *testing.T) {
	t.Parallel()

	doc := readDoc(t, `<doxygen><compounddef><sect0 id="x_8dox_y"/></compounddef></doxygen>`)

	_, err := sectionid.New().Repair(doc)
	require.ErrorIs(t, err, sectionid.ErrMissingCompoundID)
}

func TestRepairBytes(t *testing.T) {
	t.Parallel()

	r := sectionid.New()

	first, res, err := r.RepairBytes([]byte(exampleXML))
	require.NoError(t, err)
	require.True(t, res.Changed)
	assert.Contains(t, string(first), `<?xml version='1.0' encoding='UTF-8' standalone='no'?>`)
	assert.Contains(t, string(first), `<sect1 id="myfile_8ino-example_exampleSectionX">`)
	assert.Contains(t, string(first), `<title>Section X</title>`)
	assert.NotContains(t, string(first), "_8dox_")

	second, res, err := r.RepairBytes(first)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, res.Fixes)
	assert.Equal(t, first, second)
}

func TestRepairBytesParseError(t *testing.T) {
	t.Parallel()

	_, _, err := sectionid.New().RepairBytes([]byte(`<doxygen id=></doxygen>`))
	require.ErrorIs(t, err, sectionid.ErrParse)
}
