package models

// SeedFolders returns the folders every workspace starts with
func SeedFolders() []Folder {
	return []Folder{
		{ID: "1", Name: "Personal", Icon: "👤"},
		{ID: "2", Name: "Work", Icon: "💼"},
		{ID: "3", Name: "Ideas", Icon: "💡"},
	}
}

const welcomeContent = "# Welcome to GoNote\n\n" +
	"This is a **lightweight**, *fast* Markdown note-taking application.\n\n" +
	"## Features\n\n" +
	"### 1. Collaboration\n" +
	"- [x] **@Mentions**: Type '@' to tag someone. Try it: @Alice\n" +
	"- [x] **Comments**: Select text and comment on it.\n" +
	"- [x] **Sharing**: Generate a public link or invite people.\n\n" +
	"### 2. Powerful Editing\n" +
	"> \"Simplicity is the ultimate sophistication.\" - Leonardo da Vinci\n\n" +
	"## Code Example\n\n" +
	"```go\npackage main\n\nimport \"fmt\"\n\nfunc main() {\n    fmt.Println(\"Hello, collaborative world!\")\n}\n```\n"

const roadmapContent = "# Project Roadmap\n\n" +
	"Reference from [[Welcome to GoNote]]\n\n" +
	"### Phase 1: Core\n" +
	"- [ ] SQLite Integration\n" +
	"- [ ] File Uploads\n\n" +
	"### Phase 2: Design\n" +
	"- [x] Notion-like UI\n" +
	"- [x] Better Typography\n"

// SeedNotes returns the demo notes shown before the first remote load
func SeedNotes(now int64) []Note {
	share := DefaultShareConfig()
	share.IsPublic = true
	share.URL = "https://gonote.app/s/demo123"
	return []Note{
		{
			ID:          "welcome-note",
			Title:       "Welcome to GoNote",
			Content:     welcomeContent,
			FolderID:    "1",
			Attachments: []Attachment{},
			Comments: []Comment{{
				ID:         "c1",
				UserID:     "u2",
				Username:   "Alice",
				Content:    "Love this new design!",
				QuotedText: "lightweight",
				CreatedAt:  now - 100000,
			}},
			ShareConfig: share,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "ideas-note",
			Title:       "Project Roadmap",
			Content:     roadmapContent,
			FolderID:    "3",
			Attachments: []Attachment{},
			Comments:    []Comment{},
			ShareConfig: DefaultShareConfig(),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
