package hierarchy

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/devicelab-dev/screenmatch/pkg/core"
)

const sampleHierarchy = `<?xml version="1.0" encoding="UTF-8"?>
<hierarchy rotation="0">
  <node index="0" text="" resource-id="" class="android.widget.FrameLayout" bounds="[0,0][1080,1920]" clickable="false" enabled="true">
    <node index="0" text="Login" resource-id="com.app:id/login_btn" class="android.widget.Button" bounds="[100,200][300,280]" clickable="true" enabled="true"/>
    <node index="1" text="Sign Up" resource-id="com.app:id/signup_btn" class="android.widget.Button" bounds="[100,300][300,380]" clickable="true" enabled="true"/>
    <node index="2" text="" resource-id="com.app:id/container" class="android.widget.LinearLayout" bounds="[0,400][1080,800]" clickable="false" enabled="true">
      <node index="0" text="Username" resource-id="com.app:id/label" class="android.widget.TextView" bounds="[50,420][200,460]" clickable="false" enabled="true"/>
      <node index="1" text="" content-desc="Username input" resource-id="com.app:id/input" class="android.widget.EditText" bounds="[50,470][500,530]" clickable="true" enabled="true" focused="true"/>
      <node index="2" text="Hidden" class="android.widget.TextView" bounds="[50,540][50,600]" clickable="false"/>
    </node>
  </node>
</hierarchy>`

func TestExtract(t *testing.T) {
	elements := Extract(sampleHierarchy)

	want := []Element{
		{Text: "Login", ClassName: "android.widget.Button", Bounds: Bounds{100, 200, 300, 280}, Clickable: true},
		{Text: "Sign Up", ClassName: "android.widget.Button", Bounds: Bounds{100, 300, 300, 380}, Clickable: true},
		{Text: "Username", ClassName: "android.widget.TextView", Bounds: Bounds{50, 420, 200, 460}},
		{Description: "Username input", ClassName: "android.widget.EditText", Bounds: Bounds{50, 470, 500, 530}, Clickable: true},
	}

	if diff := cmp.Diff(want, elements); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NoZeroAreaBounds(t *testing.T) {
	dump := `<hierarchy>
<node text="Flat" bounds="[10,10][200,10]"/>
<node text="Thin" bounds="[10,10][10,200]"/>
<node text="Point" bounds="[0,0][0,0]"/>
<node text="Inverted" bounds="[300,300][100,100]"/>
<node text="Real" bounds="[10,10][20,20]"/>
</hierarchy>`

	elements := Extract(dump)
	for _, e := range elements {
		if e.Bounds.Empty() {
			t.Errorf("element %q has zero-area bounds %s", e.Text, e.Bounds)
		}
	}
	if len(elements) != 1 || elements[0].Text != "Real" {
		t.Errorf("expected only 'Real', got %+v", elements)
	}
}

func TestExtract_MalformedNodeSkipped(t *testing.T) {
	dump := `<node text="Broken" bounds="[0,0][10
<node text="OK" class="android.widget.Button" bounds="[0,0][100,100]" clickable="true"/>`

	elements := Extract(dump)
	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %d: %+v", len(elements), elements)
	}
	if elements[0].Text != "OK" {
		t.Errorf("expected well-formed node 'OK', got %q", elements[0].Text)
	}
}

func TestExtract_BadAttributesSkipped(t *testing.T) {
	tests := []struct {
		name string
		node string
	}{
		{"garbage bounds", `<node text="A" bounds="garbage"/>`},
		{"short bounds", `<node text="A" bounds="[0,0]"/>`},
		{"negative bounds", `<node text="A" bounds="[-5,0][10,10]"/>`},
		{"missing bounds", `<node text="A" clickable="true"/>`},
		{"unquoted value", `<node text=A bounds="[0,0][10,10]"/>`},
		{"no labels", `<node text="" content-desc="" bounds="[0,0][10,10]"/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dump := tt.node + "\n" + `<node text="Keep" bounds="[0,0][10,10]"/>`
			elements := Extract(dump)
			if len(elements) != 1 || elements[0].Text != "Keep" {
				t.Errorf("expected only 'Keep', got %+v", elements)
			}
		})
	}
}

func TestExtract_MalformedAttributeKeepsNode(t *testing.T) {
	tests := []struct {
		name string
		node string
	}{
		{"unquoted extra", `<node text="Log in" bounds="[0,0][10,10]" checked=true/>`},
		{"unquoted before", `<node checked=true text="Log in" bounds="[0,0][10,10]"/>`},
		{"bare name", `<node text="Log in" enabled bounds="[0,0][10,10]"/>`},
		{"bare name last", `<node text="Log in" bounds="[0,0][10,10]" enabled/>`},
		{"stray quoted text", `<node "junk" text="Log in" bounds="[0,0][10,10]"/>`},
		{"unquoted label", `<node text=Login content-desc="Log in" bounds="[0,0][10,10]"/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dump := tt.node + "\n" + `<node text="OK" bounds="[0,0][10,10]"/>`
			elements := Extract(dump)
			if len(elements) != 2 {
				t.Fatalf("expected 2 elements, got %d: %+v", len(elements), elements)
			}
			if got := elements[0].Label(); got != "Log in" {
				t.Errorf("first label = %q, want %q", got, "Log in")
			}
			if elements[0].Bounds != (Bounds{X1: 0, Y1: 0, X2: 10, Y2: 10}) {
				t.Errorf("first bounds = %+v", elements[0].Bounds)
			}
		})
	}
}

func TestExtract_AttributeValues(t *testing.T) {
	dump := `<node text="Terms &amp; Conditions" content-desc="a &gt; b > c" class='android.widget.CheckBox' bounds="[0,0][10,10]" clickable="TRUE"/>
<node text="Don't ask" bounds="[0,10][10,20]"/>
<node text="first" text="second" bounds="[0,20][10,30]" clickable="true"/>`

	elements := Extract(dump)
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}

	if elements[0].Text != "Terms & Conditions" {
		t.Errorf("entity not decoded: %q", elements[0].Text)
	}
	if elements[0].Description != "a > b > c" {
		t.Errorf("content-desc = %q", elements[0].Description)
	}
	if elements[0].ClassName != "android.widget.CheckBox" {
		t.Errorf("single-quoted class = %q", elements[0].ClassName)
	}
	if elements[0].Clickable {
		t.Error("clickable must be exactly \"true\"")
	}
	if elements[1].Text != "Don't ask" {
		t.Errorf("apostrophe inside value: %q", elements[1].Text)
	}
	if elements[2].Text != "first" || !elements[2].Clickable {
		t.Errorf("duplicate attribute: got %+v", elements[2])
	}
}

func TestExtract_ClassNameFromTag(t *testing.T) {
	dump := `<hierarchy rotation="0">
  <android.widget.FrameLayout bounds="[0,0][1080,1920]">
    <android.widget.Button index="0" text="Go" bounds="[0,0][50,50]" clickable="true"/>
  </android.widget.FrameLayout>
</hierarchy>`

	elements := Extract(dump)
	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(elements))
	}
	if elements[0].ClassName != "android.widget.Button" {
		t.Errorf("ClassName = %q, want android.widget.Button", elements[0].ClassName)
	}
}

func TestExtract_SurroundingNoise(t *testing.T) {
	dump := "UI hierchary dumped to: /sdcard/ui_dump.xml\n" +
		`<!-- generated --><node text="Next" bounds="[1,1][9,9]"/> trailing junk <`

	elements := Extract(dump)
	if len(elements) != 1 || elements[0].Text != "Next" {
		t.Errorf("expected 'Next', got %+v", elements)
	}
}

func TestInspect_MalformedDump(t *testing.T) {
	for _, dump := range []string{"", "not xml", "<<<>>>", "<node>"} {
		elements, err := Inspect(dump)
		if !errors.Is(err, core.ErrMalformedDump) {
			t.Errorf("Inspect(%q) err = %v, want ErrMalformedDump", dump, err)
		}
		if len(elements) != 0 {
			t.Errorf("Inspect(%q) returned %d elements", dump, len(elements))
		}
		if got := Extract(dump); len(got) != 0 {
			t.Errorf("Extract(%q) returned %d elements", dump, len(got))
		}
	}
}

func TestInspect_NodesWithoutCandidates(t *testing.T) {
	elements, err := Inspect(`<hierarchy rotation="0"><node text="" bounds="[0,0][5,5]"/></hierarchy>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 0 {
		t.Errorf("expected no candidates, got %d", len(elements))
	}
}

func TestExtract_LargeDumpKeepsOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("<hierarchy>")
	for i := 0; i < 200; i++ {
		b.WriteString(`<node text="item" bounds="[0,0][10,10]"/>`)
	}
	b.WriteString("</hierarchy>")

	if got := len(Extract(b.String())); got != 200 {
		t.Errorf("expected 200 elements, got %d", got)
	}
}
