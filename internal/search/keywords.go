package search

import (
	"regexp"
	"strings"
)

// keyword is one display phrase and the spellings that count as a mention of it
type keyword struct {
	display  string
	patterns []string
}

var requirementKeywords = []keyword{
	{"Python", []string{"python"}},
	{"Java", []string{"java"}},
	{"JavaScript", []string{"javascript", "ecmascript"}},
	{"TypeScript", []string{"typescript"}},
	{"Go", []string{"golang"}},
	{"Rust", []string{"rust"}},
	{"C++", []string{"c++"}},
	{"C#", []string{"c#"}},
	{"Ruby", []string{"ruby", "ruby on rails"}},
	{"PHP", []string{"php"}},
	{"Kotlin", []string{"kotlin"}},
	{"Swift", []string{"swift"}},
	{"Scala", []string{"scala"}},
	{"SQL", []string{"sql", "postgresql", "mysql"}},
	{"NoSQL", []string{"nosql", "mongodb", "cassandra", "dynamodb"}},
	{"React", []string{"react", "react.js", "reactjs"}},
	{"Angular", []string{"angular"}},
	{"Vue.js", []string{"vue", "vue.js", "vuejs"}},
	{"Node.js", []string{"node.js", "nodejs"}},
	{"Django", []string{"django"}},
	{"Flask", []string{"flask"}},
	{"Spring Boot", []string{"spring boot", "spring framework"}},
	{".NET", []string{".net", "asp.net"}},
	{"AWS", []string{"aws", "amazon web services"}},
	{"Azure", []string{"azure"}},
	{"GCP", []string{"gcp", "google cloud"}},
	{"Docker", []string{"docker", "containerization"}},
	{"Kubernetes", []string{"kubernetes", "k8s"}},
	{"Terraform", []string{"terraform"}},
	{"Linux", []string{"linux", "unix"}},
	{"Git", []string{"git", "github", "gitlab"}},
	{"CI/CD", []string{"ci/cd", "continuous integration", "continuous delivery"}},
	{"REST APIs", []string{"rest api", "rest apis", "restful"}},
	{"GraphQL", []string{"graphql"}},
	{"Microservices", []string{"microservice", "microservices"}},
	{"Machine Learning", []string{"machine learning", "deep learning"}},
	{"Data Analysis", []string{"data analysis", "data analytics"}},
	{"Agile", []string{"agile", "scrum", "kanban"}},
	{"Communication skills", []string{"communication skills", "excellent communication"}},
	{"Leadership", []string{"leadership", "mentoring"}},
	{"Bachelor's degree", []string{"bachelor's", "bachelors", "bachelor", "b.s.", "bs degree", "undergraduate degree"}},
	{"Master's degree", []string{"master's", "masters degree", "m.s.", "ms degree"}},
	{"PhD", []string{"phd", "ph.d", "doctorate"}},
}

var benefitKeywords = []keyword{
	{"Health insurance", []string{"health insurance", "medical insurance", "health benefits", "medical coverage"}},
	{"Dental insurance", []string{"dental"}},
	{"Vision insurance", []string{"vision insurance", "vision coverage", "vision plan"}},
	{"Life insurance", []string{"life insurance"}},
	{"401(k)", []string{"401(k)", "401k"}},
	{"Retirement plan", []string{"retirement plan", "retirement savings", "pension"}},
	{"Paid time off", []string{"paid time off", "pto", "paid vacation", "vacation days", "paid holidays"}},
	{"Remote work", []string{"remote work", "work from home", "wfh", "fully remote", "remote-first"}},
	{"Flexible hours", []string{"flexible hours", "flexible schedule", "flexible working", "flexible work"}},
	{"Parental leave", []string{"parental leave", "maternity leave", "paternity leave"}},
	{"Stock options", []string{"stock options", "equity package", "equity compensation", "rsu", "rsus", "espp"}},
	{"Bonus", []string{"bonus", "bonuses", "profit sharing"}},
	{"Professional development", []string{"professional development", "learning budget", "training budget", "tuition reimbursement", "conference budget"}},
	{"Wellness programs", []string{"wellness", "gym membership", "fitness stipend"}},
}

// keywordMatcher pairs a display phrase with its compiled boundary-aware pattern
type keywordMatcher struct {
	display string
	re      *regexp.Regexp
}

var (
	requirementMatchers = compileKeywords(requirementKeywords)
	benefitMatchers     = compileKeywords(benefitKeywords)
)

// compileKeywords builds one case-insensitive regexp per keyword. Letters, digits, '+' and '#'
// adjacent to a pattern cancel the match so "java" does not fire on "javascript".
func compileKeywords(keywords []keyword) []keywordMatcher {
	matchers := make([]keywordMatcher, 0, len(keywords))
	for _, kw := range keywords {
		quoted := make([]string, len(kw.patterns))
		for i, p := range kw.patterns {
			quoted[i] = regexp.QuoteMeta(p)
		}
		expr := `(?i)(?:^|[^\p{L}\p{N}+#])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}+#])`
		matchers = append(matchers, keywordMatcher{display: kw.display, re: regexp.MustCompile(expr)})
	}
	return matchers
}

// matchKeywords returns the display phrases mentioned in text, in table order, without duplicates
func matchKeywords(text string, matchers []keywordMatcher) []string {
	found := make([]string, 0)
	if strings.TrimSpace(text) == "" {
		return found
	}
	for _, m := range matchers {
		if m.re.MatchString(text) {
			found = append(found, m.display)
		}
	}
	return found
}

// ExtractRequirements lists the skill, degree and practice keywords mentioned in text
func ExtractRequirements(text string) []string {
	return matchKeywords(text, requirementMatchers)
}

// ExtractBenefits lists the benefit keywords mentioned in text
func ExtractBenefits(text string) []string {
	return matchKeywords(text, benefitMatchers)
}

// appendUnique appends the values of extra not yet present in list
func appendUnique(list []string, extra ...string) []string {
	seen := make(map[string]struct{}, len(list))
	for _, v := range list {
		seen[strings.ToLower(v)] = struct{}{}
	}
	for _, v := range extra {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		list = append(list, v)
	}
	return list
}
