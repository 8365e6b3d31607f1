package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
)

// WriteColumn writes one value per line in full precision.
func WriteColumn(w io.Writer, v linalg.Vector) error {
	bw := bufio.NewWriter(w)
	for _, x := range v {
		bw.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeColumnFile(path string, v linalg.Vector) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteColumn(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteNodeFiles writes time.txt and disps_<node>.txt for every active node
// into dir and returns the written paths.
func WriteNodeFiles(dir string, result *solver.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	nodes, err := result.Nodes()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(nodes)+1)
	path := filepath.Join(dir, "time.txt")
	if err := writeColumnFile(path, result.Times); err != nil {
		return nil, err
	}
	paths = append(paths, path)

	for i, node := range nodes {
		path := filepath.Join(dir, fmt.Sprintf("disps_%s.txt", solver.NodeLabels[i]))
		if err := writeColumnFile(path, node); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
