package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "coercion_failed":
			return "型変換に失敗しました"
		case "required":
			return "必須プロパティが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "length_mismatch":
			return "長さが一致しません"
		case "pattern":
			return "パターンに一致しません"
		case "not_in_choices":
			return "許可された値ではありません"
		case "in_excluded":
			return "除外された値です"
		case "not_a_number":
			return "NaN は許可されていません"
		case "not_finite":
			return "有限の数値ではありません"
		case "null_value":
			return "null は許可されていません"
		case "decode_failed":
			return "バイト列のデコードに失敗しました"
		case "only_one":
			return "いずれか一つだけが一致する必要があります"
		case "none_of":
			return "いずれにも一致してはいけません"
		case "uniqueness":
			return "要素が重複しています"
		case "recursive_ref":
			return "再帰参照を検出しました"
		case "parse_error":
			return "解析エラー"
		case "unregistered_type":
			return "未登録の型です"
		case "unknown_tag":
			return "未知の型タグです"
		case "encode_error":
			return "エンコードに失敗しました"
		case "decode_error":
			return "復元に失敗しました"
		case "duplicate_codec":
			return "コーデックが重複登録されています"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "coercion_failed":
			return "coercion failed"
		case "required":
			return "required property missing"
		case "unknown_key":
			return "unknown key"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "length_mismatch":
			return "length mismatch"
		case "pattern":
			return "pattern mismatch"
		case "not_in_choices":
			return "not an allowed value"
		case "in_excluded":
			return "value is excluded"
		case "not_a_number":
			return "NaN is not allowed"
		case "not_finite":
			return "not a finite number"
		case "null_value":
			return "null is not allowed"
		case "decode_failed":
			return "failed to decode bytes"
		case "only_one":
			return "exactly one alternative must match"
		case "none_of":
			return "no alternative may match"
		case "uniqueness":
			return "duplicate element"
		case "recursive_ref":
			return "recursive reference detected"
		case "parse_error":
			return "parse error"
		case "unregistered_type":
			return "type not registered for encoding"
		case "unknown_tag":
			return "unknown type tag"
		case "encode_error":
			return "encoding failed"
		case "decode_error":
			return "decoding failed"
		case "duplicate_codec":
			return "duplicate codec registration"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
