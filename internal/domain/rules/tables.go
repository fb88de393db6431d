package rules

// Static safety rule data. Strings carried verbatim from the curated
// clinical rule set, warnings surface to users in Chinese.

var allergyRules = map[string]AllergyRule{
	"shellfish": {
		Allergen:         "shellfish",
		BlockedNutrients: []string{"glucosamine", "chitosan", "omega_3_krill"},
		WarningNutrients: []string{"omega_3"},
		Description:      "Shellfish allergy may react to shellfish-derived supplements",
		DescriptionZH:    "贝类过敏可能对贝类来源的补充剂产生反应",
	},
	"nuts": {
		Allergen:         "nuts",
		BlockedNutrients: []string{"almond_protein", "walnut_oil"},
		WarningNutrients: []string{"vitamin_e"},
		Description:      "Nut allergy may react to nut-derived supplements",
		DescriptionZH:    "坚果过敏可能对坚果来源的补充剂产生反应",
	},
	"dairy": {
		Allergen:         "dairy",
		BlockedNutrients: []string{"whey_protein", "casein", "lactoferrin"},
		WarningNutrients: []string{"calcium", "vitamin_d"},
		Description:      "Dairy allergy may react to dairy-derived supplements",
		DescriptionZH:    "乳制品过敏可能对乳制品来源的补充剂产生反应",
	},
	"gluten": {
		Allergen:         "gluten",
		BlockedNutrients: []string{"wheat_germ_oil", "barley_grass"},
		WarningNutrients: []string{"b_vitamins"},
		Description:      "Gluten sensitivity may react to gluten-containing supplements",
		DescriptionZH:    "麸质敏感可能对含麸质的补充剂产生反应",
	},
	"soy": {
		Allergen:         "soy",
		BlockedNutrients: []string{"soy_protein", "soy_lecithin", "soy_isoflavones"},
		WarningNutrients: []string{"vitamin_e"},
		Description:      "Soy allergy may react to soy-derived supplements",
		DescriptionZH:    "大豆过敏可能对大豆来源的补充剂产生反应",
	},
	"fish": {
		Allergen:         "fish",
		BlockedNutrients: []string{"fish_oil", "omega_3_fish", "cod_liver_oil"},
		WarningNutrients: []string{"omega_3"},
		Description:      "Fish allergy may react to fish-derived supplements",
		DescriptionZH:    "鱼类过敏可能对鱼类来源的补充剂产生反应",
	},
}

var chronicConditionRules = map[string]ChronicConditionRule{
	"diabetes": {
		Condition:            "diabetes",
		WarningNutrients:     []string{"chromium", "alpha_lipoic_acid", "cinnamon"},
		RecommendedNutrients: []string{"vitamin_d", "magnesium", "omega_3", "b_vitamins"},
		Description:          "Diabetes patients should monitor blood sugar when taking certain supplements",
		DescriptionZH:        "糖尿病患者服用某些补充剂时应监测血糖",
	},
	"hypertension": {
		Condition:            "hypertension",
		BlockedNutrients:     []string{"licorice"},
		WarningNutrients:     []string{"sodium", "caffeine", "ginseng"},
		RecommendedNutrients: []string{"magnesium", "potassium", "omega_3", "coq10"},
		Description:          "Hypertension patients should avoid supplements that may raise blood pressure",
		DescriptionZH:        "高血压患者应避免可能升高血压的补充剂",
	},
	"heart_disease": {
		Condition:            "heart_disease",
		BlockedNutrients:     []string{"ephedra"},
		WarningNutrients:     []string{"vitamin_e_high_dose", "calcium_high_dose", "iron"},
		RecommendedNutrients: []string{"omega_3", "coq10", "magnesium", "vitamin_d"},
		Description:          "Heart disease patients should consult before taking certain supplements",
		DescriptionZH:        "心脏病患者服用某些补充剂前应咨询医生",
	},
	"thyroid": {
		Condition:            "thyroid",
		WarningNutrients:     []string{"iodine", "kelp", "selenium_high_dose"},
		RecommendedNutrients: []string{"selenium", "zinc", "vitamin_d"},
		Description:          "Thyroid patients should be cautious with iodine-containing supplements",
		DescriptionZH:        "甲状腺疾病患者应谨慎使用含碘补充剂",
	},
	"kidney_disease": {
		Condition:            "kidney_disease",
		BlockedNutrients:     []string{"potassium_high_dose", "phosphorus"},
		WarningNutrients:     []string{"vitamin_c_high_dose", "calcium", "magnesium"},
		RecommendedNutrients: []string{"vitamin_d", "iron", "b_vitamins"},
		Description:          "Kidney disease patients should limit certain minerals",
		DescriptionZH:        "肾病患者应限制某些矿物质的摄入",
	},
}

var drugInteractions = []DrugInteraction{
	{
		Drug:          "warfarin",
		Nutrient:      "vitamin_k",
		Severity:      SeverityHigh,
		Description:   "Vitamin K can reduce warfarin effectiveness",
		DescriptionZH: "维生素K可能降低华法林的效果",
	},
	{
		Drug:          "warfarin",
		Nutrient:      "omega_3",
		Severity:      SeverityMedium,
		Description:   "Omega-3 may increase bleeding risk with warfarin",
		DescriptionZH: "Omega-3与华法林同服可能增加出血风险",
	},
	{
		Drug:          "warfarin",
		Nutrient:      "vitamin_e",
		Severity:      SeverityMedium,
		Description:   "High-dose Vitamin E may increase bleeding risk",
		DescriptionZH: "高剂量维生素E可能增加出血风险",
	},
	{
		Drug:          "aspirin",
		Nutrient:      "omega_3",
		Severity:      SeverityMedium,
		Description:   "Omega-3 may increase bleeding risk with aspirin",
		DescriptionZH: "Omega-3与阿司匹林同服可能增加出血风险",
	},
	{
		Drug:          "aspirin",
		Nutrient:      "ginkgo",
		Severity:      SeverityHigh,
		Description:   "Ginkgo may significantly increase bleeding risk with aspirin",
		DescriptionZH: "银杏与阿司匹林同服可能显著增加出血风险",
	},
	{
		Drug:          "ace_inhibitor",
		Nutrient:      "potassium",
		Severity:      SeverityHigh,
		Description:   "ACE inhibitors can increase potassium levels",
		DescriptionZH: "ACE抑制剂可能增加钾水平，补钾需谨慎",
	},
	{
		Drug:          "calcium_channel_blocker",
		Nutrient:      "grapefruit",
		Severity:      SeverityHigh,
		Description:   "Grapefruit can increase drug concentration",
		DescriptionZH: "葡萄柚可能增加药物浓度",
	},
	{
		Drug:          "metformin",
		Nutrient:      "vitamin_b12",
		Severity:      SeverityLow,
		Description:   "Metformin may reduce B12 absorption, supplementation may be beneficial",
		DescriptionZH: "二甲双胍可能降低B12吸收，补充可能有益",
	},
	{
		Drug:          "insulin",
		Nutrient:      "chromium",
		Severity:      SeverityMedium,
		Description:   "Chromium may affect blood sugar, monitor closely",
		DescriptionZH: "铬可能影响血糖，需密切监测",
	},
	{
		Drug:          "levothyroxine",
		Nutrient:      "calcium",
		Severity:      SeverityMedium,
		Description:   "Calcium may reduce levothyroxine absorption, take separately",
		DescriptionZH: "钙可能降低左甲状腺素吸收，需分开服用",
	},
	{
		Drug:          "levothyroxine",
		Nutrient:      "iron",
		Severity:      SeverityMedium,
		Description:   "Iron may reduce levothyroxine absorption, take separately",
		DescriptionZH: "铁可能降低左甲状腺素吸收，需分开服用",
	},
	{
		Drug:          "tetracycline",
		Nutrient:      "calcium",
		Severity:      SeverityHigh,
		Description:   "Calcium significantly reduces tetracycline absorption",
		DescriptionZH: "钙显著降低四环素吸收",
	},
	{
		Drug:          "fluoroquinolone",
		Nutrient:      "magnesium",
		Severity:      SeverityHigh,
		Description:   "Magnesium reduces fluoroquinolone absorption",
		DescriptionZH: "镁降低氟喹诺酮类抗生素吸收",
	},
	{
		Drug:          "statin",
		Nutrient:      "coq10",
		Severity:      SeverityLow,
		Description:   "Statins may reduce CoQ10 levels, supplementation may be beneficial",
		DescriptionZH: "他汀类药物可能降低辅酶Q10水平，补充可能有益",
	},
	{
		Drug:          "statin",
		Nutrient:      "red_yeast_rice",
		Severity:      SeverityHigh,
		Description:   "Red yeast rice contains natural statins, may cause overdose",
		DescriptionZH: "红曲米含有天然他汀，可能导致过量",
	},
}

// drugAliases maps a drug class key to the names users actually type.
var drugAliases = map[string][]string{
	"warfarin":                {"华法林", "warfarin", "coumadin", "香豆素"},
	"aspirin":                 {"阿司匹林", "aspirin", "拜阿司匹灵"},
	"ace_inhibitor":           {"普利类", "依那普利", "卡托普利", "赖诺普利", "enalapril", "captopril", "lisinopril"},
	"calcium_channel_blocker": {"地平类", "氨氯地平", "硝苯地平", "amlodipine", "nifedipine"},
	"metformin":               {"二甲双胍", "metformin", "格华止"},
	"insulin":                 {"胰岛素", "insulin"},
	"levothyroxine":           {"左甲状腺素", "优甲乐", "levothyroxine", "synthroid"},
	"tetracycline":            {"四环素", "tetracycline", "多西环素", "doxycycline"},
	"fluoroquinolone":         {"氟喹诺酮", "左氧氟沙星", "莫西沙星", "levofloxacin", "moxifloxacin"},
	"statin":                  {"他汀", "阿托伐他汀", "瑞舒伐他汀", "辛伐他汀", "atorvastatin", "rosuvastatin", "simvastatin"},
}
