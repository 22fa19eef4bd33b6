// Package domain contains courier lookup entities and the response normalizer.
package domain

import "encoding/json"

// ParcelCounts is the canonical counter record for couriers reporting in
// parcel terms (Steadfast, Pathao).
type ParcelCounts struct {
	Total     int `json:"Total Parcels"`
	Delivered int `json:"Delivered Parcels"`
	Canceled  int `json:"Canceled Parcels"`
}

// DeliveryCounts is the canonical counter record for couriers reporting in
// delivery terms (RedX).
type DeliveryCounts struct {
	Total      int `json:"Total Delivery"`
	Successful int `json:"Successful Delivery"`
	Canceled   int `json:"Canceled Delivery"`
}

// CanonicalSummary is the unified output schema merging the three upstream
// courier response shapes. The key set is fixed: every courier appears even
// when its source was absent or malformed, with an all-zero record.
type CanonicalSummary struct {
	Steadfast ParcelCounts   `json:"Steadfast"`
	RedX      DeliveryCounts `json:"RedX"`
	Pathao    ParcelCounts   `json:"Pathao"`
}

// SteadfastRaw is the wire shape of a Steadfast fragment.
type SteadfastRaw struct {
	TotalDelivered int `json:"total_delivered"`
	TotalCancelled int `json:"total_cancelled"`
}

// RedXRaw is the wire shape of a RedX fragment.
type RedXRaw struct {
	TotalParcels     int `json:"totalParcels"`
	DeliveredParcels int `json:"deliveredParcels"`
}

// PathaoRaw is the wire shape of a Pathao fragment.
type PathaoRaw struct {
	TotalDelivery      int `json:"total_delivery"`
	SuccessfulDelivery int `json:"successful_delivery"`
}

// Normalize merges the three per-source raw fragments into a CanonicalSummary.
// Each input is independently optional: a nil, empty or malformed fragment
// leaves that courier's record at the zero default without affecting the
// others. Derived fields: Steadfast total = delivered + cancelled, RedX
// canceled = total - delivered, Pathao canceled = total - successful.
func Normalize(steadfastRaw, pathaoRaw, redexRaw []byte) CanonicalSummary {
	var summary CanonicalSummary

	var steadfast SteadfastRaw
	if decodeFragment(steadfastRaw, &steadfast) {
		summary.Steadfast = ParcelCounts{
			Total:     steadfast.TotalDelivered + steadfast.TotalCancelled,
			Delivered: steadfast.TotalDelivered,
			Canceled:  steadfast.TotalCancelled,
		}
	}

	var pathao PathaoRaw
	if decodeFragment(pathaoRaw, &pathao) {
		summary.Pathao = ParcelCounts{
			Total:     pathao.TotalDelivery,
			Delivered: pathao.SuccessfulDelivery,
			Canceled:  pathao.TotalDelivery - pathao.SuccessfulDelivery,
		}
	}

	var redex RedXRaw
	if decodeFragment(redexRaw, &redex) {
		summary.RedX = DeliveryCounts{
			Total:      redex.TotalParcels,
			Successful: redex.DeliveredParcels,
			Canceled:   redex.TotalParcels - redex.DeliveredParcels,
		}
	}

	return summary
}

// aggregateEnvelope is the shape of the upstream aggregation payload: one
// optional fragment per courier.
type aggregateEnvelope struct {
	Steadfast json.RawMessage `json:"steadfast"`
	Pathao    json.RawMessage `json:"pathao"`
	RedX      json.RawMessage `json:"redx"`
}

// Summarize extracts the per-courier fragments from an aggregate upstream
// payload and normalizes them. A payload that is not a JSON object yields the
// all-zero summary.
func Summarize(payload []byte) CanonicalSummary {
	var envelope aggregateEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return Normalize(nil, nil, nil)
	}
	return Normalize(envelope.Steadfast, envelope.Pathao, envelope.RedX)
}

// decodeFragment decodes a raw fragment into dst, reporting whether the
// fragment held usable data. Absent and malformed fragments are equivalent.
func decodeFragment(raw []byte, dst any) bool {
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false
	}
	return true
}
