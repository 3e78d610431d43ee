package repo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/loglens/corelog/internal/linestore"
	"github.com/loglens/corelog/internal/netpacket"
	"github.com/loglens/corelog/internal/translate"
)

// ExportLines writes lines [start, start+count) to w in the requested
// rendering. In Raw+Line mode it exploits the store's file-line ranges
// to issue one contiguous write per file-local span instead of one
// write per line, the way a whole unmodified log chunk is reproduced
// verbatim; every other combination renders line by line.
func (r *Repo) ExportLines(w io.Writer, typ translate.Type, format translate.Format, start, count int) error {
	if start < 0 || count < 0 || start+count > r.NumLines() {
		return fmt.Errorf("repo: export range out of bounds")
	}
	if count == 0 {
		return nil
	}

	if typ == translate.Raw && format == translate.Line {
		return r.exportRawFast(w, start, count)
	}
	return r.exportLinesSlow(w, typ, format, start, count)
}

// exportRawFast writes [start, start+count) by slicing whole file
// ranges: one write per file-local span, so a range crossing a file
// boundary becomes one write per file. It falls back to per-line writes
// for lines outside every file range and for a derived repo (which
// carries no file ranges at all).
func (r *Repo) exportRawFast(w io.Writer, start, count int) error {
	end := start + count
	ranges := r.store.FileRanges
	if len(ranges) == 0 {
		return r.exportLinesSlow(w, translate.Raw, translate.Line, start, count)
	}

	i := start
	for i < end {
		fr, ok := fileRangeContaining(ranges, i)
		if !ok {
			line := r.tools.Line(i)
			if _, err := w.Write(line.Bytes()); err != nil {
				return err
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return err
			}
			i++
			continue
		}
		spanEnd := fr.End
		if spanEnd > end {
			spanEnd = end
		}
		first := r.tools.Line(i)
		last := r.tools.Line(spanEnd - 1)
		if _, err := w.Write(first.Buf()[first.DataStart():last.DataEnd()]); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
		i = spanEnd
	}
	return nil
}

func fileRangeContaining(ranges []linestore.FileLineRange, idx int) (linestore.FileLineRange, bool) {
	for _, fr := range ranges {
		if idx >= fr.Start && idx < fr.End {
			return fr, true
		}
	}
	return linestore.FileLineRange{}, false
}

func (r *Repo) exportLinesSlow(w io.Writer, typ translate.Type, format translate.Format, start, count int) error {
	for i := start; i < start+count; i++ {
		s, err := translate.Render(typ, format, r.flavorType, r.tools.Line(i))
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}

// ExportCommandLines writes every line referenced by envelopeJSON's
// linesIndices groups, each group separated by a blank line.
func (r *Repo) ExportCommandLines(w io.Writer, typ translate.Type, format translate.Format, envelopeJSON string) error {
	var parsed struct {
		LinesIndices []struct {
			Indices []int `json:"indices"`
		} `json:"linesIndices"`
	}
	if err := json.Unmarshal([]byte(envelopeJSON), &parsed); err != nil {
		return fmt.Errorf("repo: parsing command result: %w", err)
	}

	for gi, group := range parsed.LinesIndices {
		if gi > 0 {
			if _, err := w.Write([]byte("\n")); err != nil {
				return err
			}
		}
		indices := append([]int(nil), group.Indices...)
		sort.Ints(indices)
		for _, idx := range indices {
			if idx < 0 || idx >= r.NumLines() {
				continue
			}
			s, err := translate.Render(typ, format, r.flavorType, r.tools.Line(idx))
			if err != nil {
				return err
			}
			if _, err := io.WriteString(w, s); err != nil {
				return err
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExportCommandNetworkPackets writes a PCAP capture containing every
// synthetic packet in envelopeJSON's networkPackets array, payload bytes
// taken from the line/offset/size the packet refers back to.
func (r *Repo) ExportCommandNetworkPackets(w io.Writer, envelopeJSON string) error {
	var parsed struct {
		NetworkPackets []struct {
			Domain    string    `json:"domain"`
			Timestamp int64     `json:"timestamp"`
			Endpoints [2]string `json:"endpoints"`
			Line      struct {
				Index  int `json:"index"`
				Offset int `json:"offset"`
				Size   int `json:"size"`
			} `json:"line"`
		} `json:"networkPackets"`
	}
	if err := json.Unmarshal([]byte(envelopeJSON), &parsed); err != nil {
		return fmt.Errorf("repo: parsing command result: %w", err)
	}

	var buf bytes.Buffer
	netpacket.WriteGlobalHeader(&buf)

	for _, p := range parsed.NetworkPackets {
		if p.Line.Index < 0 || p.Line.Index >= r.NumLines() {
			continue
		}
		line := r.tools.Line(p.Line.Index)
		content := line.Bytes()
		if p.Line.Offset < 0 || p.Line.Offset+p.Line.Size > len(content) {
			continue
		}
		payload := content[p.Line.Offset : p.Line.Offset+p.Line.Size]

		if p.Domain == "IPv6" {
			_ = netpacket.WriteIPv6(&buf, p.Endpoints[0], p.Endpoints[1], p.Timestamp, payload)
		} else {
			_ = netpacket.WriteIPv4(&buf, p.Endpoints[0], p.Endpoints[1], p.Timestamp, payload)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}
