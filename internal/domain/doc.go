// Package domain models the geographic selection logic shared by the radar
// and satellite imagery pipelines.
//
// # Data Sources
//
// Radar volumes are NEXRAD Level-II archives from the Unidata AWS mirror
// (https://unidata-nexrad-level2.s3.amazonaws.com). Storm-based warnings come
// from the Iowa Environmental Mesonet GeoJSON feed
// (https://mesonet.agron.iastate.edu/geojson/sbw.geojson), windowed by an
// ISO-8601 start/end pair. The gazetteer is the Natural Earth populated
// places shapefile with NAME and POP_MAX attributes.
//
// # Warning Conventions
//
// NWS storm-based warnings carry a two-letter phenomenon code and a
// one-letter significance code (VTEC):
//
//	TO = tornado, SV = severe thunderstorm, FF = flash flood, MA = marine
//	W = warning, Y = advisory, A = watch
//
// A warning is drawable when its phenomenon is one of the four recognized
// codes OR its significance is W/Y/A. The OR is deliberate: it reproduces the
// upstream product's behavior, which casts a wide net so unclassified
// products still render in the fallback color. Tornado warnings escalate to
// the emergency color when is_emergency is set, else to the PDS
// ("particularly dangerous situation") color when is_pds is set; emergency
// wins when both flags are present.
//
// # Viewports
//
// A viewport is a lon/lat axis-aligned bounding box. Radar viewports are the
// radar site plus fixed buffers (±4.3° lon, ±1.7° lat, sized for a 16:9
// canvas). Satellite viewports come from a named-region table (CONUS,
// Southeast, ...); an empty region name means the scene's native bounds.
//
// City labels are filtered by strict containment: a place sitting exactly on
// a viewport edge is excluded on purpose, because a label anchored at the
// image border always clips.
package domain
