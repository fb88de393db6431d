package scoring

// goalNutrientWeights maps each health goal to the nutrients it favors and
// their contribution weights.
var goalNutrientWeights = map[string]map[string]float64{
	"weight_loss": {
		"probiotics":        25,
		"protein_powder":    30,
		"vitamin_b_complex": 20,
		"green_tea_extract": 25,
	},
	"muscle_gain": {
		"protein_powder":    35,
		"vitamin_b_complex": 20,
		"magnesium":         20,
		"calcium":           15,
		"zinc":              10,
	},
	"energy": {
		"vitamin_b_complex": 30,
		"iron":              25,
		"coq10":             20,
		"vitamin_d":         15,
		"magnesium":         10,
	},
	"immunity": {
		"vitamin_c":  25,
		"vitamin_d":  25,
		"zinc":       20,
		"probiotics": 20,
		"omega_3":    10,
	},
	"skin_health": {
		"collagen":  30,
		"vitamin_c": 25,
		"vitamin_e": 20,
		"zinc":      15,
		"omega_3":   10,
	},
	"bone_health": {
		"calcium":   30,
		"vitamin_d": 30,
		"magnesium": 20,
		"vitamin_k": 20,
	},
	"heart_health": {
		"omega_3":   35,
		"coq10":     25,
		"magnesium": 20,
		"vitamin_d": 20,
	},
	"brain_health": {
		"omega_3":           30,
		"vitamin_b_complex": 25,
		"vitamin_d":         20,
		"magnesium":         15,
		"ginkgo":            10,
	},
	"sleep": {
		"magnesium": 35,
		"melatonin": 30,
		"vitamin_d": 20,
		"calcium":   15,
	},
}

// dietaryPreferenceModifiers adds weight for nutrients commonly lacking in a
// given diet. "no_preference" is skipped by the scorer.
var dietaryPreferenceModifiers = map[string]map[string]float64{
	"vegetarian": {
		"iron":        15,
		"vitamin_b12": 15,
		"zinc":        10,
		"omega_3":     10,
	},
	"vegan": {
		"vitamin_b12": 20,
		"iron":        15,
		"calcium":     15,
		"vitamin_d":   15,
		"zinc":        10,
		"omega_3":     10,
	},
	"keto": {
		"magnesium":         15,
		"sodium":            10,
		"potassium":         10,
		"vitamin_b_complex": 10,
	},
	"paleo": {
		"vitamin_d": 10,
		"omega_3":   10,
		"magnesium": 10,
	},
}

// metricNutrientWeights maps an abnormal lab metric (by flag) to the
// nutrients it suggests, with weights.
var metricNutrientWeights = map[string]map[string]map[string]float64{
	"hemoglobin": {
		FlagLow: {"iron": 35, "vitamin_b12": 25, "folic_acid": 20, "vitamin_c": 10},
	},
	"ferritin": {
		FlagLow: {"iron": 40, "vitamin_c": 15},
	},
	"vitamin_d": {
		FlagLow: {"vitamin_d": 50},
	},
	"vitamin_b12": {
		FlagLow: {"vitamin_b12": 50, "folic_acid": 15},
	},
	"folic_acid": {
		FlagLow: {"folic_acid": 50, "vitamin_b12": 15},
	},
	"fasting_glucose": {
		FlagLow:  {"chromium": 20, "vitamin_b_complex": 15},
		FlagHigh: {"chromium": 25, "magnesium": 20, "vitamin_d": 15, "omega_3": 15},
	},
	"hba1c": {
		FlagHigh: {"chromium": 25, "magnesium": 20, "vitamin_d": 15, "omega_3": 15},
	},
	"total_cholesterol": {
		FlagHigh: {"omega_3": 30, "coq10": 20, "niacin": 15, "fiber": 15},
	},
	"ldl": {
		FlagHigh: {"omega_3": 35, "coq10": 20, "niacin": 15},
	},
	"hdl": {
		FlagLow: {"omega_3": 30, "niacin": 20, "vitamin_d": 15},
	},
	"triglycerides": {
		FlagHigh: {"omega_3": 40, "niacin": 20, "fiber": 15},
	},
	"alt": {
		FlagHigh: {"milk_thistle": 30, "vitamin_e": 20, "omega_3": 15},
	},
	"ast": {
		FlagHigh: {"milk_thistle": 30, "vitamin_e": 20, "omega_3": 15},
	},
	"creatinine": {
		FlagHigh: {"omega_3": 20, "coq10": 15},
	},
	"uric_acid": {
		FlagHigh: {"vitamin_c": 25, "cherry_extract": 20, "quercetin": 15},
	},
	"tsh": {
		FlagLow:  {"selenium": 20, "zinc": 15},
		FlagHigh: {"selenium": 25, "zinc": 20, "vitamin_d": 15, "iodine": 15},
	},
}

// referenceRanges resolves a metric flag when the extracted record only says
// "normal" but carries a value.
var referenceRanges = map[string]referenceRange{
	"hemoglobin":        {Low: 12.0, High: 17.0, Unit: "g/dL"},
	"ferritin":          {Low: 30, High: 300, Unit: "ng/mL"},
	"vitamin_d":         {Low: 30, High: 100, Unit: "ng/mL"},
	"vitamin_b12":       {Low: 200, High: 900, Unit: "pg/mL"},
	"folic_acid":        {Low: 3, High: 17, Unit: "ng/mL"},
	"fasting_glucose":   {Low: 70, High: 100, Unit: "mg/dL"},
	"hba1c":             {Low: 4.0, High: 5.7, Unit: "%"},
	"total_cholesterol": {Low: 125, High: 200, Unit: "mg/dL"},
	"ldl":               {Low: 0, High: 100, Unit: "mg/dL"},
	"hdl":               {Low: 40, High: 200, Unit: "mg/dL"},
	"triglycerides":     {Low: 0, High: 150, Unit: "mg/dL"},
	"alt":               {Low: 0, High: 40, Unit: "U/L"},
	"ast":               {Low: 0, High: 40, Unit: "U/L"},
	"creatinine":        {Low: 0.6, High: 1.2, Unit: "mg/dL"},
	"uric_acid":         {Low: 3.5, High: 7.2, Unit: "mg/dL"},
	"tsh":               {Low: 0.4, High: 4.0, Unit: "mIU/L"},
}
