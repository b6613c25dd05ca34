package store

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type xmlMatrix struct {
	TypeID string `xml:"type_id,attr"`
	Rows   int    `xml:"rows"`
	Cols   int    `xml:"cols"`
	Dt     string `xml:"dt"`
	Data   string `xml:"data"`
}

type xmlStorage struct {
	XMLName      xml.Name   `xml:"opencv_storage"`
	CameraMatrix *xmlMatrix `xml:"Camera-Matrix"`
	Distortion   *xmlMatrix `xml:"Distortion-Coefficients"`
}

func toXMLMatrix(m matrix) *xmlMatrix {
	values := make([]string, len(m.Data))
	for i, v := range m.Data {
		values[i] = formatFloat(v)
	}
	return &xmlMatrix{
		TypeID: matrixTypeID,
		Rows:   m.Rows,
		Cols:   m.Cols,
		Dt:     doubleType,
		Data:   strings.Join(values, " "),
	}
}

func (x *xmlMatrix) matrix() (*matrix, error) {
	if x == nil {
		return nil, nil
	}
	data, err := parseFloats(x.Data)
	if err != nil {
		return nil, err
	}
	return &matrix{Rows: x.Rows, Cols: x.Cols, Data: data}, nil
}

func encodeXML(w io.Writer, k, d matrix) error {
	doc := xmlStorage{
		CameraMatrix: toXMLMatrix(k),
		Distortion:   toXMLMatrix(d),
	}

	if _, err := io.WriteString(w, `<?xml version="1.0"?>`+"\n"); err != nil {
		return errors.Wrap(err, "failed to write calibration")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode calibration xml")
	}
	_, err := io.WriteString(w, "\n")
	return errors.Wrap(err, "failed to write calibration")
}

func decodeXML(r io.Reader) (*matrix, *matrix, error) {
	var doc xmlStorage
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse calibration xml")
	}
	for _, m := range []*xmlMatrix{doc.CameraMatrix, doc.Distortion} {
		if m != nil && m.TypeID != "" && m.TypeID != matrixTypeID {
			return nil, nil, errors.Errorf("unexpected type_id %s", strconv.Quote(m.TypeID))
		}
	}

	k, err := doc.CameraMatrix.matrix()
	if err != nil {
		return nil, nil, errors.Wrap(err, KeyCameraMatrix)
	}
	d, err := doc.Distortion.matrix()
	if err != nil {
		return nil, nil, errors.Wrap(err, KeyDistortion)
	}
	return k, d, nil
}
