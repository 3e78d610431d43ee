package linestore

import (
	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/logline"
)

// processFileData walks one file's bytes line by line, handing each
// physical line to parse. A line the parser rejects is folded into the
// previous accepted record as continuation content: the previous
// record's data range is extended to cover it, and if the previous
// record's params section was empty and its msg section still reached
// the old end of its data, the msg section grows to swallow the
// continuation too. This mirrors how a stack trace or a multi-line
// payload printed without its own header line ends up attached to the
// line that introduced it.
func processFileData(data []byte, parse flavor.Parser, out *[]logline.Record) int {
	n := len(data)
	if n == 0 {
		return 0
	}

	walker := 0
	count := 0
	for walker < n {
		start := walker
		for walker < n && data[walker] != '\n' && data[walker] != '\r' {
			walker++
		}
		end := walker
		if walker < n && (data[walker] == '\n' || data[walker] == '\r') {
			walker++
		}
		for walker < n && data[walker] == 0 {
			walker++
		}

		rec := logline.NewRecord(data, start, end)
		if parse(data[start:end], &rec) {
			*out = append(*out, rec)
			count++
			continue
		}

		if len(*out) == 0 {
			continue
		}
		last := &(*out)[len(*out)-1]
		msg := last.MsgSection()
		if last.ParamsSection().Size == 0 && last.DataStart()+int(msg.Offset)+int(msg.Size) == last.DataEnd() {
			last.SetMsgSection(logline.Section{Offset: msg.Offset, Size: uint32(end - last.DataStart() - int(msg.Offset))})
		}
		last.SetDataEnd(end)
	}
	return count
}
