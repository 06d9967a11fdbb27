package tariffs

import "fmt"

// Tariff is a fixed-price tier for service orders. Prices are not stored in
// the database; the table below is the source of truth, and orders snapshot
// the resolved price at creation time.
type Tariff struct {
	SubType string
	Name    string
	Price   float64
}

// Order kinds priced by the tariff table. Values match the order type enum.
const (
	KindVIP         = "VIP"
	KindCustomVideo = "CUSTOM_VIDEO"
	KindVideoCall   = "VIDEO_CALL"
	KindRating      = "RATING"
)

// Sub-types per kind. The first constant of each group is the default tier
// used when the caller omits the sub-type.
const (
	VIPMonthly   = "MONTHLY"
	VIPQuarterly = "QUARTERLY"
	VIPYearly    = "YEARLY"

	VideoStandard = "STANDARD"
	VideoExtended = "EXTENDED"

	Call15 = "CALL_15"
	Call30 = "CALL_30"
	Call60 = "CALL_60"

	RatingBasic    = "BASIC"
	RatingDetailed = "DETAILED"
)

var table = map[string][]Tariff{
	KindVIP: {
		{SubType: VIPMonthly, Name: "VIP Monthly", Price: 49.99},
		{SubType: VIPQuarterly, Name: "VIP Quarterly", Price: 129.99},
		{SubType: VIPYearly, Name: "VIP Yearly", Price: 449.99},
	},
	KindCustomVideo: {
		{SubType: VideoStandard, Name: "Custom Video", Price: 99.99},
		{SubType: VideoExtended, Name: "Custom Video Extended", Price: 179.99},
	},
	KindVideoCall: {
		{SubType: Call15, Name: "Video Call 15 min", Price: 79.99},
		{SubType: Call30, Name: "Video Call 30 min", Price: 139.99},
		{SubType: Call60, Name: "Video Call 60 min", Price: 249.99},
	},
	KindRating: {
		{SubType: RatingBasic, Name: "Rating", Price: 19.99},
		{SubType: RatingDetailed, Name: "Detailed Rating", Price: 39.99},
	},
}

// Resolve returns the tariff for the given order kind and sub-type. An empty
// sub-type resolves to the kind's default tier.
func Resolve(kind, subType string) (Tariff, error) {
	tiers, ok := table[kind]
	if !ok {
		return Tariff{}, fmt.Errorf("no tariff table for order type %q", kind)
	}

	if subType == "" {
		return tiers[0], nil
	}

	for _, t := range tiers {
		if t.SubType == subType {
			return t, nil
		}
	}

	return Tariff{}, fmt.Errorf("unknown %s tier %q", kind, subType)
}

// VIPPlanMonths maps VIP plan tiers to their duration, used when a VIP order
// also creates a subscription.
func VIPPlanMonths(subType string) int {
	switch subType {
	case VIPQuarterly:
		return 3
	case VIPYearly:
		return 12
	default:
		return 1
	}
}
