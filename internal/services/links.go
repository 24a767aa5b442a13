package services

import (
	"strings"
	"trip-route-service/internal/domain"
)

// BuildExportLinks renders deep links that open the ordered stops in
// Google Maps and Apple Maps.
func BuildExportLinks(stops []domain.Coordinates, mode domain.TransportMode) domain.ExportLinks {
	if len(stops) < 2 {
		return domain.ExportLinks{}
	}

	native := AppleMapsURL(stops, mode)
	return domain.ExportLinks{
		Google:      GoogleMapsURL(stops, mode),
		AppleNative: native,
		AppleWeb:    strings.Replace(native, "maps://", "http://maps.apple.com/", 1),
	}
}

// GoogleMapsURL builds a Maps URLs "dir" link with intermediate stops as
// waypoints.
func GoogleMapsURL(stops []domain.Coordinates, mode domain.TransportMode) string {
	var b strings.Builder
	b.WriteString("https://www.google.com/maps/dir/?api=1")
	b.WriteString("&origin=" + stops[0].String())
	b.WriteString("&destination=" + stops[len(stops)-1].String())

	if len(stops) > 2 {
		waypoints := make([]string, 0, len(stops)-2)
		for _, s := range stops[1 : len(stops)-1] {
			waypoints = append(waypoints, s.String())
		}
		b.WriteString("&waypoints=" + strings.Join(waypoints, "|"))
	}

	b.WriteString("&travelmode=" + mode.Lower())
	return b.String()
}

// AppleMapsURL builds a maps:// link. Walking directions take one daddr
// per stop; other modes chain destinations with "+to:".
func AppleMapsURL(stops []domain.Coordinates, mode domain.TransportMode) string {
	var b strings.Builder
	b.WriteString("maps://?saddr=" + stops[0].String())

	if mode == domain.ModeWalking {
		for _, s := range stops[1:] {
			b.WriteString("&daddr=" + s.String())
		}
	} else {
		dests := make([]string, 0, len(stops)-1)
		for _, s := range stops[1:] {
			dests = append(dests, s.String())
		}
		b.WriteString("&daddr=" + strings.Join(dests, "+to:"))
	}

	b.WriteString("&dirflg=" + mode.AppleFlag())
	return b.String()
}
