package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Theme holds m.css settings. They are passed through to the generator
// verbatim.
type Theme struct {
	Doxyfile               string    `json:"doxyfile,omitempty"               yaml:"doxyfile"               jsonschema:"Doxyfile used by m.css"`
	ThemeColor             string    `json:"themeColor,omitempty"             yaml:"themeColor"             jsonschema:"theme-color meta value"`
	Favicon                string    `json:"favicon,omitempty"                yaml:"favicon"                jsonschema:"favicon path or URL"`
	Stylesheets            []string  `json:"stylesheets,omitempty"            yaml:"stylesheets"            jsonschema:"stylesheets linked from every page"`
	Navbar                 []NavLink `json:"navbar,omitempty"                 yaml:"navbar"                 jsonschema:"first navigation bar"`
	Navbar2                []NavLink `json:"navbar2,omitempty"                yaml:"navbar2"                jsonschema:"second navigation bar"`
	VersionLabels          bool      `json:"versionLabels,omitempty"          yaml:"versionLabels"          jsonschema:"show version labels"`
	ClassIndexExpandLevels int       `json:"classIndexExpandLevels,omitempty" yaml:"classIndexExpandLevels" jsonschema:"expanded levels in the class index"`
}

// NavLink is a top-level navigation entry.
type NavLink struct {
	Title    string    `json:"title"              yaml:"title"    jsonschema:"entry title"`
	Link     string    `json:"link,omitempty"     yaml:"link"     jsonschema:"page name or URL"`
	Children []NavItem `json:"children,omitempty" yaml:"children" jsonschema:"sub-entries"`
}

// NavItem is a navigation sub-entry. Either HTML is set, or Title and Link
// are.
type NavItem struct {
	Title string `json:"title,omitempty" yaml:"title" jsonschema:"entry title"`
	Link  string `json:"link,omitempty"  yaml:"link"  jsonschema:"page name or URL"`
	HTML  string `json:"html,omitempty"  yaml:"html"  jsonschema:"raw anchor markup used instead of title and link"`
}

func defaultTheme() Theme {
	anchor := func(page, frag, text string) NavItem {
		return NavItem{HTML: fmt.Sprintf(`<a href="%s.html%s">%s</a>`, page, frag, text)}
	}

	return Theme{
		Doxyfile:   "mcss-Doxyfile",
		ThemeColor: "#cb4b16",
		Favicon:    "SDI-12Text-Cropped.png",
		Stylesheets: []string{
			"css/m-EnviroDIY+documentation.compiled.css",
		},
		Navbar: []NavLink{
			{
				Title: "Functions",
				Link:  "class_s_d_i12",
				Children: []NavItem{
					anchor("class_s_d_i12", "#constructor-destructor-begins-and-setters",
						"Constructor, Destructor, Begins, and Setters"),
					anchor("class_s_d_i12", "#waking-up-and-talking-to-sensors", "Waking Up and Talking To Sensors"),
					anchor("class_s_d_i12", "#reading-from-the-sdi-12-buffer", "Reading from the SDI-12 Buffer"),
					anchor("class_s_d_i12", "#data-line-states", "Data Line States"),
					anchor("class_s_d_i12", "#using-more-than-one-sdi-12-object", "Using more than one SDI-12 Object"),
					anchor("class_s_d_i12", "#interrupt-service-routine", "Interrupt Service Routine"),
				},
			},
			{
				Title: "Examples",
				Link:  "examples_page",
				Children: []NavItem{
					anchor("a_wild_card_8ino-example", "", "Getting Sensor Information"),
					anchor("b_address_change_8ino-example", "", "Address Change"),
					anchor("c_check_all_addresses_8ino-example", "", "Checking all Addresses"),
					anchor("d_simple_logger_8ino-example", "", "Logging Data"),
					anchor("e_simple_parsing_8ino-example", "", "Parsing Data"),
					anchor("f_basic_data_request_8ino-example", "", "Simple Data Request"),
					anchor("g_terminal_window_8ino-example", "", "Terminal Emulator 1"),
					anchor("h__s_d_i-12_slave_implementation_8ino-example", "", "Slave Implementation"),
					anchor("i__s_d_i-12_interface_8ino-example", "", "Terminal Emulator 2"),
					anchor("j_external_pcint_library_8ino-example", "", "External Interrupts"),
					anchor("k_concurrent_logger_8ino-example", "", "Concurrent Measurements"),
				},
			},
			{Title: "Classes", Link: "annotated"},
			{
				Title: "Notes",
				Link:  "pages",
				Children: []NavItem{
					{Title: "The SDI-12 Specification", Link: "specifications"},
					{Title: "Overview of Pin Change Interrupts", Link: "interrupts_page"},
					{Title: "Stepping through the Rx ISR", Link: "rx_page"},
				},
			},
		},
		VersionLabels:          true,
		ClassIndexExpandLevels: 2,
	}
}

// WriteMCSSConf writes t as an m.css conf.py.
func (t Theme) WriteMCSSConf(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "DOXYFILE = %s\n", pyString(t.Doxyfile))

	if t.ThemeColor != "" {
		fmt.Fprintf(&b, "THEME_COLOR = %s\n", pyString(t.ThemeColor))
	}

	if t.Favicon != "" {
		fmt.Fprintf(&b, "FAVICON = %s\n", pyString(t.Favicon))
	}

	writeNavbar(&b, "LINKS_NAVBAR1", t.Navbar)
	writeNavbar(&b, "LINKS_NAVBAR2", t.Navbar2)

	fmt.Fprintf(&b, "VERSION_LABELS = %s\n", pyBool(t.VersionLabels))
	fmt.Fprintf(&b, "CLASS_INDEX_EXPAND_LEVELS = %d\n", t.ClassIndexExpandLevels)

	if len(t.Stylesheets) > 0 {
		b.WriteString("\nSTYLESHEETS = [\n")

		for _, s := range t.Stylesheets {
			fmt.Fprintf(&b, "    %s,\n", pyString(s))
		}

		b.WriteString("]\n")
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write m.css conf: %w", err)
	}

	return nil
}

func writeNavbar(b *strings.Builder, name string, links []NavLink) {
	fmt.Fprintf(b, "%s = [\n", name)

	for _, l := range links {
		b.WriteString("    (\n")
		fmt.Fprintf(b, "        %s,\n", pyString(l.Title))
		fmt.Fprintf(b, "        %s,\n", pyString(l.Link))

		if len(l.Children) == 0 {
			b.WriteString("        [],\n")
		} else {
			b.WriteString("        [\n")

			for _, c := range l.Children {
				if c.HTML != "" {
					fmt.Fprintf(b, "            (%s,),\n", pyString(c.HTML))
				} else {
					fmt.Fprintf(b, "            (%s, %s),\n", pyString(c.Title), pyString(c.Link))
				}
			}

			b.WriteString("        ],\n")
		}

		b.WriteString("    ),\n")
	}

	b.WriteString("]\n")
}

// pyString quotes s as a Python string literal. Go's escapes are a subset of
// Python's for the strings found in theme settings.
func pyString(s string) string {
	return strconv.Quote(s)
}

func pyBool(v bool) string {
	if v {
		return "True"
	}

	return "False"
}
