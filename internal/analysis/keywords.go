package analysis

import (
	"sort"
	"strings"

	"github.com/prism-insight/prism-cli/internal/model"
)

// TechKeywords is the curated matching vocabulary. Matching is
// case-insensitive; the stored casing is what reports display. Process-wide
// read-only data: do not mutate at runtime.
var TechKeywords = []string{
	// Languages
	"Python", "Java", "PHP", "JavaScript", "TypeScript", "Ruby", "Go", "Rust",
	"C#", "C++", "C", "Swift", "Kotlin", "Scala", "Perl", "Delphi", "VBA",

	// Frontend frameworks
	"React", "Vue.js", "Vue", "Next.js", "Nuxt.js", "Angular", "Svelte", "jQuery",

	// Backend frameworks
	"Django", "Flask", "FastAPI", "Laravel", "Rails", "Ruby on Rails", "Spring",
	"Spring Boot", "Express", "Express.js", "NestJS", "ASP.NET", ".NET",

	// CMS / EC platforms
	"WordPress", "Shopify", "Wix", "Drupal", "Joomla", "EC-CUBE", "UTAGE",

	// Cloud / infra
	"AWS", "Azure", "GCP", "Google Cloud", "Docker", "Kubernetes", "Terraform",
	"Ansible", "Heroku", "Vercel", "Netlify",

	// Databases
	"MySQL", "PostgreSQL", "MongoDB", "Redis", "DynamoDB", "Oracle",
	"SQL Server", "MariaDB", "SQLite", "Elasticsearch",

	// AI / ML
	"AI", "機械学習", "深層学習", "ディープラーニング", "ChatGPT", "GPT", "LLM",
	"生成AI", "OpenAI", "Gemini", "Claude", "RAG", "Dify", "LangChain",
	"TensorFlow", "PyTorch",

	// Mobile
	"iOS", "Android", "React Native", "Flutter", "Xamarin",

	// Game development
	"Unity", "UE5", "Unreal Engine", "Unreal", "Godot", "Cocos2d",

	// Tooling / protocols
	"Git", "GitHub", "GitLab", "Bitbucket", "Jenkins", "CircleCI", "GraphQL",
	"REST API", "API", "WebSocket", "gRPC", "Node.js", "Deno", "Bun", "Vite",
	"Webpack", "Babel",

	// Payments / auth
	"Stripe", "PayPal", "Auth0", "Firebase", "Supabase",

	// Communication
	"LINE", "Slack", "Teams", "Discord", "Zoom",

	// Data processing / analytics
	"Excel", "Pandas", "NumPy", "Jupyter", "Apache Spark", "Tableau", "Power BI",

	// Blockchain / Web3
	"ブロックチェーン", "Blockchain", "Web3", "NFT", "Ethereum", "Solidity", "Bitcoin",

	// Everything else
	"IoT", "AR", "VR", "XR", "メタバース", "RPA", "UiPath", "Salesforce", "SAP",
	"Figma", "Photoshop", "Illustrator", "SEO", "マーケティング", "セキュリティ",
	"DX", "アジャイル", "Scrum", "DevOps", "SRE", "マイクロサービス",
	"サーバーレス", "CI/CD", "テスト自動化", "E2E", "Selenium", "Playwright",
	"Puppeteer", "スクレイピング", "クローリング", "せどり", "EC", "ECサイト",
	"SaaS", "BtoB", "BtoC",
}

// ExtractKeywords counts, for each vocabulary keyword, the number of rows
// whose text field contains it as a case-insensitive substring. A keyword
// occurring multiple times within one row still counts once for that row.
// Rows with a missing or empty text field contribute nothing.
func ExtractKeywords(rows []model.Row, textField string) map[string]int {
	freq := make(map[string]int)

	for _, row := range rows {
		text, ok := row[textField]
		if !ok || text == "" {
			continue
		}
		lower := strings.ToLower(text)

		for _, keyword := range TechKeywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				freq[keyword]++
			}
		}
	}

	return freq
}

// CompareKeywords extracts keyword frequencies from both row sets and
// summarizes the movement. Increased entries are ordered by diff descending,
// decreased by diff ascending (largest drop first); ties break by keyword
// ascending so output is deterministic. Both lists truncate to topN.
func CompareKeywords(baseRows, targetRows []model.Row, textField string, topN int) model.KeywordComparison {
	baseFreq := ExtractKeywords(baseRows, textField)
	targetFreq := ExtractKeywords(targetRows, textField)

	var increased, decreased []model.KeywordChange
	var newKeywords, disappeared []string

	for keyword := range targetFreq {
		if _, ok := baseFreq[keyword]; !ok {
			newKeywords = append(newKeywords, keyword)
		}
	}
	for keyword := range baseFreq {
		if _, ok := targetFreq[keyword]; !ok {
			disappeared = append(disappeared, keyword)
		}
	}

	seen := make(map[string]bool, len(baseFreq)+len(targetFreq))
	for _, freq := range []map[string]int{baseFreq, targetFreq} {
		for keyword := range freq {
			if seen[keyword] {
				continue
			}
			seen[keyword] = true

			change := model.KeywordChange{
				Keyword: keyword,
				Base:    baseFreq[keyword],
				Target:  targetFreq[keyword],
			}
			change.Diff = change.Target - change.Base

			switch {
			case change.Diff > 0:
				increased = append(increased, change)
			case change.Diff < 0:
				decreased = append(decreased, change)
			}
		}
	}

	sort.Slice(increased, func(i, j int) bool {
		if increased[i].Diff != increased[j].Diff {
			return increased[i].Diff > increased[j].Diff
		}
		return increased[i].Keyword < increased[j].Keyword
	})
	sort.Slice(decreased, func(i, j int) bool {
		if decreased[i].Diff != decreased[j].Diff {
			return decreased[i].Diff < decreased[j].Diff
		}
		return decreased[i].Keyword < decreased[j].Keyword
	})

	if topN >= 0 && len(increased) > topN {
		increased = increased[:topN]
	}
	if topN >= 0 && len(decreased) > topN {
		decreased = decreased[:topN]
	}

	sort.Strings(newKeywords)
	sort.Strings(disappeared)

	return model.KeywordComparison{
		BaseTotal:           len(baseRows),
		TargetTotal:         len(targetRows),
		IncreasedKeywords:   increased,
		DecreasedKeywords:   decreased,
		NewKeywords:         newKeywords,
		DisappearedKeywords: disappeared,
	}
}
