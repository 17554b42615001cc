package hierarchy

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Tuple is the compact element view handed to a vision matcher:
// what the element says, whether it is clickable, and where its center is.
type Tuple struct {
	Label     string `json:"label"`
	Clickable bool   `json:"clickable"`
	CenterX   uint32 `json:"center_x"`
	CenterY   uint32 `json:"center_y"`
}

// String renders the tuple as one line of a prompt element list.
func (t Tuple) String() string {
	state := "not-clickable"
	if t.Clickable {
		state = "clickable"
	}
	return fmt.Sprintf("- %q (%s) at center (%d, %d)", t.Label, state, t.CenterX, t.CenterY)
}

// Tuples converts elements to vision matcher tuples, keeping order.
func Tuples(elems []Element) []Tuple {
	tuples := make([]Tuple, 0, len(elems))
	for _, e := range elems {
		label := e.Label()
		if label == "" {
			continue
		}
		x, y := e.Bounds.Center()
		tuples = append(tuples, Tuple{
			Label:     label,
			Clickable: e.Clickable,
			CenterX:   x,
			CenterY:   y,
		})
	}
	return tuples
}

type jsonElement struct {
	Element
	Center [2]uint32 `json:"center"`
}

// WriteJSON writes elements as an indented JSON array.
func WriteJSON(w io.Writer, elems []Element) error {
	out := make([]jsonElement, len(elems))
	for i, e := range elems {
		x, y := e.Bounds.Center()
		out[i] = jsonElement{Element: e, Center: [2]uint32{x, y}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var csvHeader = []string{"index", "text", "description", "class", "bounds", "center_x", "center_y", "clickable"}

// WriteCSV writes one row per element with a header row.
func WriteCSV(w io.Writer, elems []Element) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, e := range elems {
		x, y := e.Bounds.Center()
		row := []string{
			strconv.Itoa(i),
			e.Text,
			e.Description,
			e.ClassName,
			e.Bounds.String(),
			strconv.FormatUint(uint64(x), 10),
			strconv.FormatUint(uint64(y), 10),
			strconv.FormatBool(e.Clickable),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
