package repo

import (
	"sort"
	"strings"

	"github.com/loglens/corelog/internal/logline"
)

type tagNode struct {
	count      int
	children   map[string]*tagNode
	order      []string
}

func (n *tagNode) child(name string) *tagNode {
	if n.children == nil {
		n.children = map[string]*tagNode{}
	}
	c, ok := n.children[name]
	if !ok {
		c = &tagNode{}
		n.children[name] = c
		n.order = append(n.order, name)
	}
	return c
}

type tagNodeJSON struct {
	Name        string        `json:"name"`
	Count       int           `json:"count"`
	Descendents []tagNodeJSON `json:"descendents,omitempty"`
}

func (n *tagNode) toJSON(name string) tagNodeJSON {
	out := tagNodeJSON{Name: name, Count: n.count}
	for _, childName := range n.order {
		out.Descendents = append(out.Descendents, n.children[childName].toJSON(childName))
	}
	return out
}

type summaryJSON struct {
	TimeRange struct {
		Start int64 `json:"start"`
		End   int64 `json:"end"`
	} `json:"timeRange"`
	NumLines            int           `json:"numLines"`
	WarningsLinesIndex  []int         `json:"warningsLinesIndex"`
	ErrorsLinesIndex    []int         `json:"errorsLinesIndex"`
	ThreadIDs           []int32       `json:"threadIds"`
	ThreadNames         []string      `json:"threadNames"`
	Tags                []tagNodeJSON `json:"tags"`
}

// GetSummary scans the whole store once, producing time range, line
// count, the indices of warning and of error/fatal lines, the set of
// thread ids/names seen, and the tag
// usage tree (one node per dot-separated segment, §6.3).
func (r *Repo) GetSummary() string {
	var out summaryJSON
	out.NumLines = r.NumLines()
	out.WarningsLinesIndex = []int{}
	out.ErrorsLinesIndex = []int{}
	out.ThreadIDs = []int32{}
	out.ThreadNames = []string{}
	out.Tags = []tagNodeJSON{}

	if r.NumLines() == 0 {
		return mustJSON(out)
	}

	out.TimeRange.Start = r.tools.Line(0).Timestamp
	out.TimeRange.End = r.tools.Line(r.NumLines() - 1).Timestamp

	threadIDs := map[int32]bool{}
	threadNames := map[string]bool{}
	root := &tagNode{}

	for i := 0; i < r.NumLines(); i++ {
		line := r.tools.Line(i)
		threadIDs[line.ThreadID] = true
		if name := line.ThreadName(); name != "" {
			threadNames[name] = true
		}

		switch line.Level {
		case logline.Warn:
			out.WarningsLinesIndex = append(out.WarningsLinesIndex, i)
		case logline.Error, logline.Fatal:
			out.ErrorsLinesIndex = append(out.ErrorsLinesIndex, i)
		}

		if tag := line.Tag(); tag != "" {
			node := root
			for _, segment := range strings.Split(tag, ".") {
				node = node.child(segment)
				node.count++
			}
		}
	}

	ids := make([]int32, 0, len(threadIDs))
	for id := range threadIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out.ThreadIDs = ids

	names := make([]string, 0, len(threadNames))
	for n := range threadNames {
		names = append(names, n)
	}
	sort.Strings(names)
	out.ThreadNames = names

	for _, name := range root.order {
		out.Tags = append(out.Tags, root.children[name].toJSON(name))
	}

	return mustJSON(out)
}
