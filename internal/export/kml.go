// Package export renders captured point collections into interchange documents.
package export

import (
	"field-survey-service/internal/domain"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	KMLMimeType = "application/vnd.google-earth.kml+xml"
	KMLNS       = "http://www.opengis.net/kml/2.2"

	DefaultTitle       = "Levantamiento GeoSmart"
	DefaultDescription = "Puntos capturados con GeoSmart Mapper"

	styleID  = "pointStyle"
	iconHref = "http://maps.google.com/mapfiles/kml/paddle/red-circle.png"

	captureDateLayout = "2006-01-02 15:04:05 MST"
)

// KMLOptions controls document metadata. Zero values select the defaults
// and UTC for capture dates.
type KMLOptions struct {
	Title       string
	Description string
	Location    *time.Location
}

func (o KMLOptions) withDefaults() KMLOptions {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Description == "" {
		o.Description = DefaultDescription
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// KML serializes points into a KML 2.2 document.
// Placemarks appear in the same order as points; nothing is sorted or dropped.
func KML(points []domain.CapturedPoint, opts KMLOptions) string {
	opts = opts.withDefaults()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<kml xmlns="` + KMLNS + `">` + "\n")
	b.WriteString("  <Document>\n")
	fmt.Fprintf(&b, "    <name>%s</name>\n", EscapeXML(opts.Title))
	fmt.Fprintf(&b, "    <description>%s</description>\n", EscapeXML(opts.Description))

	writeStyle(&b)

	for i := range points {
		writePlacemark(&b, &points[i], opts.Location)
	}

	b.WriteString("  </Document>\n")
	b.WriteString("</kml>\n")
	return b.String()
}

func writeStyle(b *strings.Builder) {
	fmt.Fprintf(b, "    <Style id=\"%s\">\n", styleID)
	b.WriteString("      <IconStyle>\n")
	b.WriteString("        <scale>1.1</scale>\n")
	b.WriteString("        <Icon>\n")
	fmt.Fprintf(b, "          <href>%s</href>\n", iconHref)
	b.WriteString("        </Icon>\n")
	b.WriteString("      </IconStyle>\n")
	b.WriteString("      <LabelStyle>\n")
	b.WriteString("        <scale>1.0</scale>\n")
	b.WriteString("      </LabelStyle>\n")
	b.WriteString("    </Style>\n")
}

func writePlacemark(b *strings.Builder, p *domain.CapturedPoint, loc *time.Location) {
	b.WriteString("    <Placemark>\n")
	fmt.Fprintf(b, "      <name>%s</name>\n", EscapeXML(p.Name))
	b.WriteString("      <description><![CDATA[\n")
	fmt.Fprintf(b, "        <b>Tipo:</b> %s<br/>\n", EscapeCDATA(string(p.Category)))
	fmt.Fprintf(b, "        <b>Características:</b> %s<br/>\n", EscapeCDATA(p.Characteristics))
	fmt.Fprintf(b, "        <b>Observaciones:</b> %s<br/>\n", EscapeCDATA(p.Observations))
	fmt.Fprintf(b, "        <b>UTM:</b> Zone %d%s E:%s N:%s<br/>\n",
		p.Projected.Zone, EscapeCDATA(p.Projected.Band),
		meters(p.Projected.Easting), meters(p.Projected.Northing))
	fmt.Fprintf(b, "        <b>Fecha:</b> %s\n", p.CapturedAt(loc).Format(captureDateLayout))
	b.WriteString("      ]]></description>\n")
	fmt.Fprintf(b, "      <styleUrl>#%s</styleUrl>\n", styleID)
	b.WriteString("      <Point>\n")
	// KML coordinate order is lon,lat,alt.
	fmt.Fprintf(b, "        <coordinates>%s,%s,0</coordinates>\n",
		degrees(p.Position.Longitude), degrees(p.Position.Latitude))
	b.WriteString("      </Point>\n")
	b.WriteString("    </Placemark>\n")
}

func degrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func meters(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FileName returns the download name for an export produced at now,
// e.g. levantamiento_2026-10-19.kml.
func FileName(ext string, now time.Time) string {
	return "levantamiento_" + now.UTC().Format("2006-01-02") + "." + strings.TrimPrefix(ext, ".")
}
