package models

import "encoding/xml"

// Model represents a 3MF model structure
type Model struct {
	XMLName   xml.Name   `xml:"model"`
	Unit      string     `xml:"unit,attr"`
	Metadata  []Metadata `xml:"metadata"`
	Resources Resources  `xml:"resources"`
	Build     Build      `xml:"build"`
}

type Metadata struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type Resources struct {
	Objects []Object `xml:"object"`
}

type Object struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
	Mesh *Mesh  `xml:"mesh"`
}

type Mesh struct {
	Vertices *Vertices `xml:"vertices"`
}

type Vertices struct {
	RawContent string `xml:",innerxml"`
}

type Build struct {
	Items []Item `xml:"item"`
}

type Item struct {
	ObjectID  string `xml:"objectid,attr"`
	Transform string `xml:"transform,attr"`
}
