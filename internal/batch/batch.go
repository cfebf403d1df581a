// Package batch streams (path, content) pairs from the file system in
// memory-bounded batches, per spec.md §4.B. Large files are read in
// chunks and truncated with a sentinel marker once a batch's budget is
// exhausted; a terminal "final" batch always closes the stream with the
// complete processed-stats map and the list of deleted paths.
package batch

import (
	"bufio"
	"log"
	"os"
	"time"
)

// TruncationSentinel is appended to content that was cut short because
// the batch's memory budget ran out.
const TruncationSentinel = "\n/* ...truncated by semindex stream batcher... */\n"

// Stat is the persisted (size, mtime) pair the change detector compares
// against on the next run.
type Stat struct {
	Size  int64     `json:"size"`
	Mtime time.Time `json:"mtime"`
}

// Kind distinguishes a content batch from the terminal batch.
type Kind string

const (
	KindContent Kind = "content"
	KindFinal   Kind = "final"
)

// Batch is one yield of the stream batcher.
type Batch struct {
	Kind      Kind
	Files     map[string]string // path -> content (possibly truncated)
	Stats     map[string]Stat   // path -> (size, mtime) for files in this batch
	Unchanged []string
	Deleted   []string          // only set on the terminal batch
	Metadata  map[string]string
}

// Options configures a batcher run.
type Options struct {
	Root         string
	BatchSize    int   // file-count cap per batch
	MemoryLimit  int64 // byte cap per batch
	ChunkSize    int64 // files at or above this size are streamed in chunks
}

// DefaultOptions mirrors the teacher's conservative defaults for
// unattended indexing runs.
func DefaultOptions(root string) Options {
	return Options{
		Root:        root,
		BatchSize:   200,
		MemoryLimit: 32 * 1024 * 1024,
		ChunkSize:   1 * 1024 * 1024,
	}
}

// Classification is what the change detector decided about a discovered
// path (see internal/changedetect).
type Classification struct {
	Path      string
	Changed   bool // true for both "changed" and "new"
	Unchanged bool
}

// Stream reads paths according to cls (skipping unchanged files
// entirely) and sends batches on the returned channel. deleted is the
// list the change detector already computed; it rides along on the
// terminal batch. Stream never blocks the caller past channel capacity
// 1; the caller must drain it.
func Stream(opts Options, cls []Classification, deleted []string) <-chan Batch {
	out := make(chan Batch, 1)
	go func() {
		defer close(out)

		processedStats := make(map[string]Stat)
		var unchangedAll []string

		cur := Batch{Kind: KindContent, Files: map[string]string{}, Stats: map[string]Stat{}}
		var curBytes int64

		flush := func() {
			if len(cur.Files) == 0 {
				return
			}
			out <- cur
			for p, s := range cur.Stats {
				processedStats[p] = s
			}
			cur = Batch{Kind: KindContent, Files: map[string]string{}, Stats: map[string]Stat{}}
			curBytes = 0
		}

		for _, c := range cls {
			if c.Unchanged {
				unchangedAll = append(unchangedAll, c.Path)
				continue
			}
			full := joinRoot(opts.Root, c.Path)
			info, err := os.Stat(full)
			if err != nil {
				log.Printf("semindex: batcher: skipping %s: %v", c.Path, err)
				continue
			}

			remaining := opts.MemoryLimit - curBytes
			content, truncated, err := readBounded(full, info.Size(), opts.ChunkSize, remaining)
			if err != nil {
				log.Printf("semindex: batcher: skipping %s: %v", c.Path, err)
				continue
			}
			if truncated {
				content += TruncationSentinel
			}

			cur.Files[c.Path] = content
			cur.Stats[c.Path] = Stat{Size: info.Size(), Mtime: info.ModTime()}
			curBytes += int64(len(content))

			if len(cur.Files) >= opts.BatchSize || curBytes >= opts.MemoryLimit {
				flush()
			}
		}
		flush()

		out <- Batch{
			Kind:      KindFinal,
			Files:     map[string]string{},
			Stats:     processedStats,
			Unchanged: unchangedAll,
			Deleted:   deleted,
		}
	}()
	return out
}

// readBounded reads a file whole when it is smaller than chunkSize;
// otherwise it reads in 64KiB chunks, stopping early (and reporting
// truncation) if budget is exhausted before EOF.
func readBounded(path string, size, chunkSize, budget int64) (string, bool, error) {
	// A file exactly at chunkSize belongs to the small-file path (see
	// spec's boundary-behavior test), so the comparison is <=, not <.
	if size <= chunkSize {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false, err
		}
		return string(data), false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	const chunk = 64 * 1024
	buf := make([]byte, chunk)
	r := bufio.NewReader(f)

	var out []byte
	var truncated bool
	for {
		if budget >= 0 && int64(len(out)) >= budget {
			truncated = true
			break
		}
		n, err := r.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return string(out), truncated, nil
}

func joinRoot(root, rel string) string {
	if root == "" {
		return rel
	}
	return root + "/" + rel
}
