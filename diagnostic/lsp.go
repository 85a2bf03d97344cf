package diagnostic

import (
	"errors"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/dshills/spanmap/span"
	"github.com/dshills/spanmap/text"
)

// ErrBadPayload indicates a publishDiagnostics payload that is not valid JSON.
var ErrBadPayload = errors.New("diagnostic: malformed publishDiagnostics payload")

// Publish decodes an LSP textDocument/publishDiagnostics params payload and
// replaces everything previously published by source with it, anchoring
// each diagnostic's range against snap. Related locations in the same
// document become supporting entries of the primary's group. Returns the
// IDs of the inserted entries.
func (s *Set) Publish(snap *text.Snapshot, source string, data []byte) ([]span.ID, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrBadPayload
	}
	entries := decodePublish(data, snap, s.NextGroup)
	return s.Update(snap, source, entries), nil
}

// decodePublish converts the payload into anchored entries. It accepts
// either full params (an object with a "diagnostics" array) or a bare array
// of diagnostics.
func decodePublish(data []byte, snap *text.Snapshot, nextGroup func() GroupID) []span.Span[Entry] {
	root := gjson.ParseBytes(data)
	uri := root.Get("uri").String()
	diags := root.Get("diagnostics")
	if !diags.Exists() && root.IsArray() {
		diags = root
	}

	var entries []span.Span[Entry]
	diags.ForEach(func(_, d gjson.Result) bool {
		rng := rangeFromLSP(d.Get("range"), snap)
		group := nextGroup()

		severity := Severity(d.Get("severity").Int())
		if severity < SeverityError || severity > SeverityHint {
			severity = SeverityError
		}

		entries = append(entries, span.Span[Entry]{
			Range: rng,
			Payload: Entry{
				Severity:  severity,
				Message:   d.Get("message").String(),
				Source:    d.Get("source").String(),
				Code:      d.Get("code").String(),
				Group:     group,
				IsPrimary: true,
			},
		})

		d.Get("relatedInformation").ForEach(func(_, rel gjson.Result) bool {
			loc := rel.Get("location")
			if u := loc.Get("uri").String(); u != "" && uri != "" && u != uri {
				// Related location in another document; not indexable here.
				return true
			}
			entries = append(entries, span.Span[Entry]{
				Range: rangeFromLSP(loc.Get("range"), snap),
				Payload: Entry{
					Severity: severity,
					Message:  rel.Get("message").String(),
					Source:   d.Get("source").String(),
					Group:    group,
				},
			})
			return true
		})
		return true
	})
	return entries
}

func rangeFromLSP(r gjson.Result, snap *text.Snapshot) text.Range {
	start := pointFromLSP(r.Get("start"), snap)
	end := pointFromLSP(r.Get("end"), snap)
	return snap.AnchorRange(text.PointRange{Start: start, End: end})
}

// pointFromLSP converts an LSP position, whose character counts UTF-16 code
// units, into a byte-column point.
func pointFromLSP(p gjson.Result, snap *text.Snapshot) text.Point {
	line := p.Get("line").Int()
	if line < 0 {
		line = 0
	}
	character := p.Get("character").Int()

	l := uint32(line)
	content := snap.Line(l)
	var units int64
	var col uint32
	for _, r := range content {
		if units >= character {
			break
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		col += uint32(utf8.RuneLen(r))
	}
	return text.Point{Line: l, Column: col}
}
