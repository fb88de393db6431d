package recommend

import "strings"

const disclaimerZH = `【健康免责声明】
本平台提供的营养建议仅供参考，不构成医疗诊断或治疗建议。
在开始任何营养补充计划之前，请咨询您的医生或专业医疗人员。
如果您正在服用药物或有任何健康状况，请务必在使用任何补充剂之前寻求专业医疗建议。
本平台不对因使用这些建议而产生的任何后果承担责任。`

const disclaimerEN = `[Health Disclaimer]
The nutritional recommendations provided by this platform are for reference only and do not constitute medical diagnosis or treatment advice.
Please consult your doctor or healthcare professional before starting any nutritional supplement program.
If you are taking medications or have any health conditions, be sure to seek professional medical advice before using any supplements.
This platform is not responsible for any consequences arising from the use of these recommendations.`

// Disclaimer returns the mandatory disclaimer for the locale. Anything
// that is not an English locale falls back to zh-TW.
func Disclaimer(locale string) string {
	switch strings.ToLower(locale) {
	case "en", "en-us", "en-gb":
		return disclaimerEN
	default:
		return disclaimerZH
	}
}
