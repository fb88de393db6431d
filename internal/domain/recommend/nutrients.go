package recommend

// nutrientDatabase is the curated supplement knowledge base. Keys line up
// with the scoring tables and safety rules.
var nutrientDatabase = map[string]nutrientInfo{
	"vitamin_d": {
		Name:     LocalizedString{ZhTW: "维生素D", EN: "Vitamin D"},
		Benefits: []string{"骨骼健康", "免疫支持", "情绪调节"},
		Goals:    []string{"immunity", "bone_health", "energy"},
	},
	"omega_3": {
		Name:     LocalizedString{ZhTW: "Omega-3 鱼油", EN: "Omega-3 Fish Oil"},
		Benefits: []string{"心血管健康", "大脑功能", "抗炎"},
		Goals:    []string{"heart_health", "brain_health", "immunity"},
	},
	"vitamin_c": {
		Name:     LocalizedString{ZhTW: "维生素C", EN: "Vitamin C"},
		Benefits: []string{"免疫支持", "抗氧化", "皮肤健康"},
		Goals:    []string{"immunity", "skin_health", "energy"},
	},
	"vitamin_b_complex": {
		Name:     LocalizedString{ZhTW: "维生素B群", EN: "Vitamin B Complex"},
		Benefits: []string{"能量代谢", "神经系统", "红血球生成"},
		Goals:    []string{"energy", "muscle_gain", "brain_health"},
	},
	"magnesium": {
		Name:     LocalizedString{ZhTW: "镁", EN: "Magnesium"},
		Benefits: []string{"肌肉放松", "睡眠质量", "心脏健康"},
		Goals:    []string{"sleep", "muscle_gain", "heart_health"},
	},
	"zinc": {
		Name:     LocalizedString{ZhTW: "锌", EN: "Zinc"},
		Benefits: []string{"免疫功能", "伤口愈合", "皮肤健康"},
		Goals:    []string{"immunity", "skin_health", "muscle_gain"},
	},
	"probiotics": {
		Name:     LocalizedString{ZhTW: "益生菌", EN: "Probiotics"},
		Benefits: []string{"肠道健康", "免疫支持", "消化功能"},
		Goals:    []string{"immunity", "weight_loss", "energy"},
	},
	"collagen": {
		Name:     LocalizedString{ZhTW: "胶原蛋白", EN: "Collagen"},
		Benefits: []string{"皮肤弹性", "关节健康", "头发指甲"},
		Goals:    []string{"skin_health", "bone_health"},
	},
	"coq10": {
		Name:     LocalizedString{ZhTW: "辅酶Q10", EN: "CoQ10"},
		Benefits: []string{"心脏健康", "能量产生", "抗氧化"},
		Goals:    []string{"heart_health", "energy"},
	},
	"iron": {
		Name:     LocalizedString{ZhTW: "铁", EN: "Iron"},
		Benefits: []string{"血红蛋白生成", "能量水平", "认知功能"},
		Goals:    []string{"energy", "immunity"},
	},
	"calcium": {
		Name:     LocalizedString{ZhTW: "钙", EN: "Calcium"},
		Benefits: []string{"骨骼健康", "肌肉功能", "神经传导"},
		Goals:    []string{"bone_health", "muscle_gain"},
	},
	"vitamin_e": {
		Name:     LocalizedString{ZhTW: "维生素E", EN: "Vitamin E"},
		Benefits: []string{"抗氧化", "皮肤健康", "免疫支持"},
		Goals:    []string{"skin_health", "immunity"},
	},
	"turmeric": {
		Name:     LocalizedString{ZhTW: "姜黄素", EN: "Turmeric/Curcumin"},
		Benefits: []string{"抗炎", "关节健康", "抗氧化"},
		Goals:    []string{"immunity", "bone_health"},
	},
	"melatonin": {
		Name:     LocalizedString{ZhTW: "褪黑素", EN: "Melatonin"},
		Benefits: []string{"睡眠调节", "抗氧化", "免疫支持"},
		Goals:    []string{"sleep", "immunity"},
	},
	"protein_powder": {
		Name:     LocalizedString{ZhTW: "蛋白粉", EN: "Protein Powder"},
		Benefits: []string{"肌肉生长", "饱腹感", "运动恢复"},
		Goals:    []string{"muscle_gain", "weight_loss"},
	},
}

// nutrientDisplayName resolves a rec key to its localized name, falling
// back to the raw key for nutrients outside the knowledge base.
func nutrientDisplayName(recKey string) LocalizedString {
	if info, ok := nutrientDatabase[recKey]; ok {
		return info.Name
	}
	return LocalizedString{ZhTW: recKey, EN: recKey}
}
