package store

import (
	"bytes"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OpenCV writes a non-standard "%YAML:1.0" directive that YAML parsers reject
const yamlHeader = "%YAML:1.0\n---\n"

type yamlMatrix struct {
	Rows int       `yaml:"rows"`
	Cols int       `yaml:"cols"`
	Dt   string    `yaml:"dt"`
	Data []float64 `yaml:"data"`
}

type yamlStorage struct {
	CameraMatrix *yamlMatrix `yaml:"Camera-Matrix"`
	Distortion   *yamlMatrix `yaml:"Distortion-Coefficients"`
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

func yamlMatrixNode(m matrix) *yaml.Node {
	data := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range m.Data {
		data.Content = append(data.Content, scalar(formatFloat(v)))
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!" + matrixTypeID,
		Content: []*yaml.Node{
			scalar("rows"), scalar(strconv.Itoa(m.Rows)),
			scalar("cols"), scalar(strconv.Itoa(m.Cols)),
			scalar("dt"), scalar(doubleType),
			scalar("data"), data,
		},
	}
}

func encodeYAML(w io.Writer, k, d matrix) error {
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar(KeyCameraMatrix), yamlMatrixNode(k),
			scalar(KeyDistortion), yamlMatrixNode(d),
		},
	}

	if _, err := io.WriteString(w, yamlHeader); err != nil {
		return errors.Wrap(err, "failed to write calibration")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(3)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode calibration yaml")
	}
	return errors.Wrap(enc.Close(), "failed to flush calibration yaml")
}

func decodeYAML(r io.Reader) (*matrix, *matrix, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read calibration yaml")
	}
	if bytes.HasPrefix(raw, []byte("%YAML:")) {
		if i := bytes.IndexByte(raw, '\n'); i >= 0 {
			raw = raw[i+1:]
		} else {
			raw = nil
		}
	}

	var doc yamlStorage
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse calibration yaml")
	}

	var k, d *matrix
	if doc.CameraMatrix != nil {
		k = &matrix{Rows: doc.CameraMatrix.Rows, Cols: doc.CameraMatrix.Cols, Data: doc.CameraMatrix.Data}
	}
	if doc.Distortion != nil {
		d = &matrix{Rows: doc.Distortion.Rows, Cols: doc.Distortion.Cols, Data: doc.Distortion.Data}
	}
	return k, d, nil
}
