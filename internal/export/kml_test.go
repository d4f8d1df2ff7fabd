package export

import (
	"encoding/xml"
	"field-survey-service/internal/domain"
	"strings"
	"testing"
	"time"
)

type kmlDoc struct {
	XMLName  xml.Name `xml:"kml"`
	Document struct {
		Name       string `xml:"name"`
		Styles     []struct {
			ID string `xml:"id,attr"`
		} `xml:"Style"`
		Placemarks []struct {
			Name        string `xml:"name"`
			Description string `xml:"description"`
			StyleURL    string `xml:"styleUrl"`
			Coordinates string `xml:"Point>coordinates"`
		} `xml:"Placemark"`
	} `xml:"Document"`
}

func parseKML(t *testing.T, s string) kmlDoc {
	t.Helper()
	var doc kmlDoc
	if err := xml.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("document is not well-formed XML: %v\n%s", err, s)
	}
	return doc
}

func testPoint(id, name string, lat, lon float64) domain.CapturedPoint {
	return domain.CapturedPoint{
		ID:                    id,
		Name:                  name,
		Category:              domain.CategoryCracking,
		Characteristics:       "Concreto, grieta de 2 cm",
		Observations:          "Acceso por calle lateral",
		CapturedAtEpochMillis: 1700000000000,
		Position:              domain.GeographicPosition{Latitude: lat, Longitude: lon, Accuracy: 5},
		Projected:             domain.ProjectedCoordinate{Easting: 486017.33, Northing: 2148700.2, Zone: 14, Band: "Q"},
	}
}

func TestKMLEmpty(t *testing.T) {
	out := KML(nil, KMLOptions{})

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("missing xml declaration: %q", out[:40])
	}
	if !strings.Contains(out, `<kml xmlns="http://www.opengis.net/kml/2.2">`) {
		t.Fatalf("missing kml root with namespace")
	}
	if !strings.Contains(out, "<Document>") {
		t.Fatalf("missing Document element")
	}
	if strings.Contains(out, "<Placemark>") {
		t.Fatalf("expected zero placemarks")
	}

	doc := parseKML(t, out)
	if doc.Document.Name != DefaultTitle {
		t.Fatalf("document name = %q, want %q", doc.Document.Name, DefaultTitle)
	}
	if len(doc.Document.Styles) != 1 || doc.Document.Styles[0].ID != "pointStyle" {
		t.Fatalf("styles = %+v, want one pointStyle", doc.Document.Styles)
	}
}

func TestKMLSinglePlacemark(t *testing.T) {
	p := testPoint("a", "Poste 245", 19.4326, -99.1332)
	out := KML([]domain.CapturedPoint{p}, KMLOptions{})

	doc := parseKML(t, out)
	if len(doc.Document.Placemarks) != 1 {
		t.Fatalf("placemarks = %d, want 1", len(doc.Document.Placemarks))
	}

	pm := doc.Document.Placemarks[0]
	if got := strings.TrimSpace(pm.Coordinates); got != "-99.1332,19.4326,0" {
		t.Fatalf("coordinates = %q, want lon,lat,0", got)
	}
	if pm.StyleURL != "#pointStyle" {
		t.Fatalf("styleUrl = %q", pm.StyleURL)
	}
	if pm.Name != "Poste 245" {
		t.Fatalf("name = %q", pm.Name)
	}

	for _, want := range []string{
		"<b>Tipo:</b> Cracking",
		"<b>Características:</b> Concreto, grieta de 2 cm",
		"<b>Observaciones:</b> Acceso por calle lateral",
		"<b>UTM:</b> Zone 14Q E:486017.33 N:2148700.20",
		"<b>Fecha:</b> 2023-11-14 22:13:20 UTC",
	} {
		if !strings.Contains(pm.Description, want) {
			t.Errorf("description missing %q:\n%s", want, pm.Description)
		}
	}
}

func TestKMLEscapesName(t *testing.T) {
	p := testPoint("a", `O'Brien <Pole> & Co"`, 1, 2)
	out := KML([]domain.CapturedPoint{p}, KMLOptions{})

	want := "<name>O&apos;Brien &lt;Pole&gt; &amp; Co&quot;</name>"
	if !strings.Contains(out, want) {
		t.Fatalf("escaped name not found, want %s in:\n%s", want, out)
	}

	doc := parseKML(t, out)
	if got := doc.Document.Placemarks[0].Name; got != `O'Brien <Pole> & Co"` {
		t.Fatalf("decoded name = %q", got)
	}
}

func TestKMLCDATATerminatorIsSplit(t *testing.T) {
	p := testPoint("a", "x", 1, 2)
	p.Observations = "see ]]> <Placemark> here"
	out := KML([]domain.CapturedPoint{p}, KMLOptions{})

	doc := parseKML(t, out)
	if len(doc.Document.Placemarks) != 1 {
		t.Fatalf("placemarks = %d, want 1", len(doc.Document.Placemarks))
	}
	if !strings.Contains(doc.Document.Placemarks[0].Description, "see ]]> <Placemark> here") {
		t.Fatalf("observations not preserved: %q", doc.Document.Placemarks[0].Description)
	}
}

func TestKMLDropsIllegalXMLCharacters(t *testing.T) {
	p := testPoint("a", "Pozo\x01 norte\x1f", 1, 2)
	p.Observations = "nivel\x00 bajo\x0b"
	p.Characteristics = "roca\xff"
	out := KML([]domain.CapturedPoint{p}, KMLOptions{})

	doc := parseKML(t, out)
	pm := doc.Document.Placemarks[0]
	if pm.Name != "Pozo norte" {
		t.Fatalf("name = %q, want %q", pm.Name, "Pozo norte")
	}
	if !strings.Contains(pm.Description, "nivel bajo") {
		t.Fatalf("observations = %q", pm.Description)
	}
	if !strings.Contains(pm.Description, "roca\uFFFD") {
		t.Fatalf("invalid UTF-8 not replaced: %q", pm.Description)
	}
}

func TestKMLPreservesOrder(t *testing.T) {
	points := []domain.CapturedPoint{
		testPoint("1", "third-alpha", 3, 3),
		testPoint("2", "first-beta", 1, 1),
		testPoint("3", "second-gamma", 2, 2),
	}
	doc := parseKML(t, KML(points, KMLOptions{}))

	if len(doc.Document.Placemarks) != len(points) {
		t.Fatalf("placemarks = %d, want %d", len(doc.Document.Placemarks), len(points))
	}
	for i, pm := range doc.Document.Placemarks {
		if pm.Name != points[i].Name {
			t.Errorf("placemark %d = %q, want %q", i, pm.Name, points[i].Name)
		}
	}
}

func TestKMLUsesGivenLocation(t *testing.T) {
	p := testPoint("a", "x", 1, 2)
	cst := time.FixedZone("CST", -6*60*60)

	out := KML([]domain.CapturedPoint{p}, KMLOptions{Location: cst, Title: "Obra <norte>"})
	if !strings.Contains(out, "<b>Fecha:</b> 2023-11-14 16:13:20 CST") {
		t.Fatalf("capture date not rendered in CST:\n%s", out)
	}
	if !strings.Contains(out, "<name>Obra &lt;norte&gt;</name>") {
		t.Fatalf("custom title not escaped")
	}
}

func TestKMLIsDeterministic(t *testing.T) {
	points := []domain.CapturedPoint{testPoint("1", "a", 1, 1), testPoint("2", "b", 2, 2)}
	if KML(points, KMLOptions{}) != KML(points, KMLOptions{}) {
		t.Fatalf("KML output differs between identical calls")
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{`O'Brien <Pole> & Co"`, "O&apos;Brien &lt;Pole&gt; &amp; Co&quot;"},
		{"&amp;", "&amp;amp;"},
		{"Vegetación ñ", "Vegetación ñ"},
		{"a\x01b\tc\r\n", "ab\tc\r\n"},
		{"x\uFFFEy", "xy"},
		{"bad\xffbyte", "bad\uFFFDbyte"},
	}
	for _, tc := range tests {
		if got := EscapeXML(tc.in); got != tc.want {
			t.Errorf("EscapeXML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeCDATA(t *testing.T) {
	if got := EscapeCDATA("a]]>b]]>"); got != "a]]]]><![CDATA[>b]]]]><![CDATA[>" {
		t.Fatalf("EscapeCDATA = %q", got)
	}
	if got := EscapeCDATA("a\x00b\x08]]>\xff"); got != "ab]]]]><![CDATA[>\uFFFD" {
		t.Fatalf("EscapeCDATA did not filter illegal characters: %q", got)
	}
	if got := EscapeCDATA("]] >"); got != "]] >" {
		t.Fatalf("EscapeCDATA changed harmless input: %q", got)
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("X", -2*60*60))
	if got := FileName("kml", now); got != "levantamiento_2026-10-20.kml" {
		t.Fatalf("FileName = %q", got)
	}
	if got := FileName(".geojson", now); got != "levantamiento_2026-10-20.geojson" {
		t.Fatalf("FileName = %q", got)
	}
}
