package events

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// fields maps JSON keys to decode targets.
type fields map[string]interface{}

// decodeObject fills each target from the matching key of a JSON object.
// A value that does not fit its target is coerced where a scalar reading
// exists and otherwise left at the zero value. It never fails: a non-object
// decodes as an empty one.
func decodeObject(data []byte, targets fields) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for key, target := range targets {
		if value, ok := raw[key]; ok {
			decodeValue(value, target)
		}
	}
	return nil
}

func decodeValue(raw json.RawMessage, target interface{}) {
	if err := json.Unmarshal(raw, target); err == nil {
		return
	}

	text := scalarText(raw)
	switch t := target.(type) {
	case *string:
		*t = text
	case *int:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			*t = int(f)
		}
	case **float64:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			*t = &f
		} else {
			*t = nil
		}
	}
}

// scalarText renders a JSON string or number as text. Anything else is "".
func scalarText(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	}
	return ""
}

func (r *SearchResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"_embedded": &r.Embedded, "page": &r.Page})
}

func (e *searchEmbedded) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"events": &e.Events})
}

func (e *RawEvent) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{
		"id":              &e.ID,
		"name":            &e.Name,
		"url":             &e.URL,
		"images":          &e.Images,
		"dates":           &e.Dates,
		"classifications": &e.Classifications,
		"priceRanges":     &e.PriceRanges,
		"seatmap":         &e.Seatmap,
		"_embedded":       &e.Embedded,
	})
}

func (e *eventEmbedded) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"venues": &e.Venues, "attractions": &e.Attractions})
}

func (i *ticketmasterImage) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"ratio": &i.Ratio, "url": &i.URL, "width": &i.Width, "height": &i.Height})
}

func (d *ticketmasterDates) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"start": &d.Start, "timezone": &d.Timezone, "status": &d.Status})
}

func (d *ticketmasterEventDate) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"localDate": &d.LocalDate, "localTime": &d.LocalTime, "dateTime": &d.DateTime})
}

func (s *ticketmasterStatus) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"code": &s.Code})
}

func (c *ticketmasterClassification) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{
		"primary":  &c.Primary,
		"segment":  &c.Segment,
		"genre":    &c.Genre,
		"subGenre": &c.SubGenre,
		"type":     &c.Type,
		"subType":  &c.SubType,
	})
}

func (i *ticketmasterClassificationItem) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"id": &i.ID, "name": &i.Name})
}

func (p *ticketmasterPriceRange) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"type": &p.Type, "currency": &p.Currency, "min": &p.Min, "max": &p.Max})
}

func (s *ticketmasterSeatmap) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"staticUrl": &s.StaticURL})
}

func (v *RawVenue) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{
		"id":            &v.ID,
		"name":          &v.Name,
		"url":           &v.URL,
		"images":        &v.Images,
		"city":          &v.City,
		"state":         &v.State,
		"address":       &v.Address,
		"location":      &v.Location,
		"boxOfficeInfo": &v.BoxOfficeInfo,
		"parkingDetail": &v.ParkingDetail,
		"generalInfo":   &v.GeneralInfo,
	})
}

func (n *ticketmasterNamed) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"name": &n.Name})
}

func (s *ticketmasterState) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"name": &s.Name, "stateCode": &s.StateCode})
}

func (a *ticketmasterAddress) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"line1": &a.Line1})
}

func (l *ticketmasterLocation) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"longitude": &l.Longitude, "latitude": &l.Latitude})
}

func (b *ticketmasterBoxOffice) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"phoneNumberDetail": &b.PhoneNumberDetail, "openHoursDetail": &b.OpenHoursDetail})
}

func (g *ticketmasterGeneralInfo) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"generalRule": &g.GeneralRule, "childRule": &g.ChildRule})
}

func (a *ticketmasterAttraction) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"id": &a.ID, "name": &a.Name})
}

func (p *ticketmasterPage) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{
		"size":          &p.Size,
		"totalElements": &p.TotalElements,
		"totalPages":    &p.TotalPages,
		"number":        &p.Number,
	})
}

func (r *ticketmasterSuggestResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"_embedded": &r.Embedded})
}

func (r *ticketmasterVenuesResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, fields{"_embedded": &r.Embedded})
}
