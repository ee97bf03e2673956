package summarizer

import "strings"

// koreanStopwords are connectives and filler words that carry no topic
var koreanStopwords = strings.Fields(`
그리고 그러나 하지만 또한 또는 그래서 이런 저런 그냥 매우 너무 상당히 더욱 더욱이 바로 이미
이것 그것 저것 여기 저기 우리 여러분 등의 등 등등 변화 대한 관련 관련해 대해서 경우 통해 대해
있다 있는 없는 했다 한다 위해 위한 것으로 것이 수도 밝혔다 말했다 기자 뉴스 무단 전재 배포 금지
`)

var englishStopwords = strings.Fields(`
a about above after again against all also am an and any are as at be because been before being
below between both but by can could did do does doing down during each few for from further had has
have having he her here hers herself him himself his how i if in into is it its itself just me more
most my myself no nor not now of off on once only or other our ours ourselves out over own said same
she should so some such than that the their theirs them themselves then there these they this those
through to too under until up very was we were what when where which while who whom why will with
would you your yours yourself yourselves
`)

// DefaultStopwords returns the Korean and English stopword set used for keywords
func DefaultStopwords() map[string]struct{} {
	set := make(map[string]struct{}, len(koreanStopwords)+len(englishStopwords))
	for _, w := range koreanStopwords {
		set[w] = struct{}{}
	}
	for _, w := range englishStopwords {
		set[w] = struct{}{}
	}
	return set
}
