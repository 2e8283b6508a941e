package smbios

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

// DefaultTablePath is where Linux exposes the raw SMBIOS structure table
const DefaultTablePath = "/sys/firmware/dmi/tables/DMI"

const (
	typeBios       = 0
	typeSystem     = 1
	typeBaseBoard  = 2
	typeEndOfTable = 127

	headerLength = 4
)

// Structure is a single entry of the SMBIOS table.
// Data contains the formatted area including the 4 byte header.
type Structure struct {
	Type    byte
	Handle  uint16
	Data    []byte
	Strings []string
}

// GetByte returns the byte at the given offset of the formatted area, or 0
func (s Structure) GetByte(offset int) byte {
	if offset < 0 || offset >= len(s.Data) {
		return 0
	}
	return s.Data[offset]
}

// GetString resolves the string reference stored at the given offset.
// A reference of 0 means "no string".
func (s Structure) GetString(offset int) string {
	index := int(s.GetByte(offset))
	if index <= 0 || index > len(s.Strings) {
		return ""
	}
	return strings.TrimSpace(s.Strings[index-1])
}

type BiosInformation struct {
	Vendor  string
	Version string
	Date    string
}

type SystemInformation struct {
	ManufacturerName string
	ProductName      string
	Version          string
	SerialNumber     string
	Family           string
}

type BaseBoardInformation struct {
	ManufacturerName string
	ProductName      string
	Version          string
	SerialNumber     string
}

// Table is the decoded SMBIOS table
type Table struct {
	Structures []Structure
	Bios       *BiosInformation
	System     *SystemInformation
	Board      *BaseBoardInformation
}

// Read loads and parses the table at the given path
func Read(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read SMBIOS table: %w", err)
	}
	return Parse(raw), nil
}

// Parse walks the raw structure table. The walk stops at the end-of-table
// structure, when the data is exhausted, or at a truncated structure.
func Parse(raw []byte) *Table {
	table := &Table{}
	offset := 0
	for offset+headerLength <= len(raw) {
		structureType := raw[offset]
		length := int(raw[offset+1])
		handle := binary.LittleEndian.Uint16(raw[offset+2 : offset+4])

		if length < headerLength || offset+length > len(raw) {
			break
		}
		data := make([]byte, length)
		copy(data, raw[offset:offset+length])
		offset += length

		var texts []string
		if offset < len(raw) && raw[offset] == 0 {
			offset++
		}
		for offset < len(raw) && raw[offset] != 0 {
			end := offset
			for end < len(raw) && raw[end] != 0 {
				end++
			}
			texts = append(texts, string(raw[offset:end]))
			offset = end + 1
		}
		offset++

		if structureType == typeEndOfTable {
			break
		}

		structure := Structure{
			Type:    structureType,
			Handle:  handle,
			Data:    data,
			Strings: texts,
		}
		table.Structures = append(table.Structures, structure)

		switch structureType {
		case typeBios:
			table.Bios = &BiosInformation{
				Vendor:  structure.GetString(0x04),
				Version: structure.GetString(0x05),
				Date:    structure.GetString(0x08),
			}
		case typeSystem:
			table.System = &SystemInformation{
				ManufacturerName: structure.GetString(0x04),
				ProductName:      structure.GetString(0x05),
				Version:          structure.GetString(0x06),
				SerialNumber:     structure.GetString(0x07),
				Family:           structure.GetString(0x1A),
			}
		case typeBaseBoard:
			table.Board = &BaseBoardInformation{
				ManufacturerName: structure.GetString(0x04),
				ProductName:      structure.GetString(0x05),
				Version:          structure.GetString(0x06),
				SerialNumber:     structure.GetString(0x07),
			}
		}
	}
	return table
}

// Report renders all decoded fields
func (t *Table) Report() string {
	var sb strings.Builder
	if t.Bios != nil {
		sb.WriteString(fmt.Sprintf("BIOS Vendor: %s\n", t.Bios.Vendor))
		sb.WriteString(fmt.Sprintf("BIOS Version: %s\n", t.Bios.Version))
		sb.WriteString(fmt.Sprintf("BIOS Date: %s\n", t.Bios.Date))
		sb.WriteString("\n")
	}
	if t.System != nil {
		sb.WriteString(fmt.Sprintf("System Manufacturer: %s\n", t.System.ManufacturerName))
		sb.WriteString(fmt.Sprintf("System Name: %s\n", t.System.ProductName))
		sb.WriteString(fmt.Sprintf("System Version: %s\n", t.System.Version))
		sb.WriteString(fmt.Sprintf("System Family: %s\n", t.System.Family))
		sb.WriteString("\n")
	}
	if t.Board != nil {
		sb.WriteString(fmt.Sprintf("Mainboard Manufacturer: %s\n", t.Board.ManufacturerName))
		sb.WriteString(fmt.Sprintf("Mainboard Name: %s\n", t.Board.ProductName))
		sb.WriteString(fmt.Sprintf("Mainboard Version: %s\n", t.Board.Version))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Structures: %d\n", len(t.Structures)))
	return sb.String()
}
