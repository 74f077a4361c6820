package routing

import "strings"

// RuleDictionary は複雑度判定のキーワード辞書
// 先に一致した指標が採用される（ペア→単語の順）
type RuleDictionary struct {
	pairs   []keywordPair
	singles []string
}

// keywordPair は両方が含まれるときに一致するキーワードの組
type keywordPair struct {
	first  string
	second string
}

func (p keywordPair) String() string {
	return p.first + "+" + p.second
}

// NewRuleDictionary は新しいRuleDictionaryを作成
func NewRuleDictionary() *RuleDictionary {
	return &RuleDictionary{
		pairs: []keywordPair{
			// 生成＋動き
			{"créé", "court"},
			{"créé", "saute"},
			{"personnage", "mouvement"},
			{"personnage", "animation"},
			// 生成＋カメラ演出
			{"créé", "360"},
			{"créé", "orbite"},
			{"créé", "film"},
			// 複数オブジェクト・シーン全体
			{"plusieurs", "objet"},
			{"scene", "complet"},
			{"environnement", "avec"},
		},
		singles: []string{
			"qui court",
			"qui saute",
			"qui marche",
			"avec animation",
			"et anime",
			"vue 360",
			"caméra tourne",
			"personnage",
			"character",
			"scène complète",
		},
	}
}

// Match は小文字化済みのプロンプトを指標と照合し、一致した指標を返す
func (d *RuleDictionary) Match(lower string) (string, bool) {
	for _, pair := range d.pairs {
		if strings.Contains(lower, pair.first) && strings.Contains(lower, pair.second) {
			return pair.String(), true
		}
	}

	for _, keyword := range d.singles {
		if strings.Contains(lower, keyword) {
			return keyword, true
		}
	}

	return "", false
}
