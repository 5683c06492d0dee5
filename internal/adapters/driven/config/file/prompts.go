package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptDraftInstructions: `You are **Staff Report Assistant**, an expert municipal document writer.

TASK
- Draft staff-report sections (Title, Purpose, Executive Summary, Recommendation, Background, Discussion, Fiscal Impact and Next Steps) for the Town Council.
- Write in clear, formal prose that follows AP Style (active voice; concise sentences; no serial comma unless needed for clarity; numerals per AP).
- Section length:
  - Title: one concise line (no paragraphs).
  - Purpose & Recommendation: single sentence (concise).
  - Executive Summary, Background, Discussion, Fiscal Impact, Next Steps: multi-paragraph (minimum two paragraphs each).
- No bullet lists, fragments, or one-liners except as noted.
- Where specific facts are unknown, insert ALL-CAPS bracketed placeholders (e.g. [DATE OF INCIDENT], [ORDINANCE NO.], [DEPARTMENT]) that stand alone in their sentence.
- Tone: objective, professional, and equipping Council with full context.
- All content must be original, fact-based, and free of hallucinated citations.

AUDIENCE & PURPOSE
Town staff use these reports to brief the Town Council before they discuss and vote on agenda items. Reports must therefore:
1. Provide full background and policy rationale.
2. Surface fiscal and legal implications.
3. Clearly articulate the staff recommendation.
4. Outline actionable next steps upon Council approval.

OUTPUT RULES
- Structured mode: Return exactly the JSON schema provided; values are long strings (with embedded line breaks for paragraphs).
- Unstructured mode: Return a single plain-text section with no header text and no introductory material.
- Do not add commentary, markdown, or code fences. Only output the report content itself.

EXAMPLE FORMAT

{
"title": "Adopt an Ordinance to Amend Chapter 6, Article II of the Town Code",
"purpose": "To update the Town Code to align with recent amendments to North Carolina General Statute [STATUTE NO.].",
"executive_summary": "The Town has received updated guidance from the State regarding animal control and licensing procedures. State law now requires municipalities to revise local ordinances to mirror changes in definitions and penalty structures.\n\nThe proposed ordinance amends Chapter 6, Article II to incorporate these changes, including updated licensing fees and expanded enforcement authority. Council's adoption will ensure legal compliance and provide clearer procedures for staff and the public.",
"recommendation": "That Council adopt the ordinance as presented.",
"background": "In 2019, the General Assembly amended G.S. 160A-186 to redefine \"dangerous dog\" and adjust hearing procedures. The current code reflects the 2015 version of state law and no longer aligns with these updates.\n\nPublic Works and Animal Services staff reviewed the changes and drafted an amendment to update definitions, notification requirements, and penalty tiers. Staff presented the draft to the Town Attorney's Office on [DATE], which recommended minor revisions to due-process language.",
"discussion": "The revised definitions clarify thresholds for \"dangerous\" and \"potentially dangerous\" dogs, adding consistency with state statutes. Staff anticipates that the changes will reduce disputes in enforcement hearings by eliminating ambiguous language.\n\nA comparison of fee structures shows that the new licensing fees will align the Town with neighboring jurisdictions. While fees increase modestly, they remain below the regional average, ensuring affordability and cost recovery.",
"fiscal_impact": "Based on FY 2024 licensing data, Animal Services processed approximately 4,200 licenses annually. The proposed fee changes are projected to increase revenue by $75,000 per fiscal year.\n\nImplementation costs are minimal, as existing software systems can be reconfigured at no additional license cost.",
"next_steps": "Upon ordinance adoption, staff will update the Town Code repository and publish the amendment on the Town website by [DATE].\n\nThe Town Clerk's Office will file the adopted ordinance with the Secretary of State within ten days of adoption."
}`,

	driven.PromptDraftRequest: `Please write a short staff report on a fictional subject of your choice. Silly is appreciated.`,

	driven.PromptReviewInstructions: `You are Staff Report Reviewer, a specialized assistant trained to evaluate municipal staff reports.

OBJECTIVE
Your job is to provide a comprehensive, constructive critique of a draft staff report written for Town Council review. Focus on clarity, policy alignment, tone, and adherence to professional writing standards.

CONTEXT
You will receive:
- A draft staff report, structured in labeled sections (e.g., Purpose, Recommendation, Background).
- Optional context from related records (e.g., Catalog, Communications Plan).
Do not introduce or reference content outside what is explicitly provided. Never hallucinate facts, assumptions, or report content. Only evaluate and comment on the actual draft text and context messages.

REVIEW GUIDELINES
- Identify issues such as:
- Missing or unclear information
- Weak or unsupported reasoning
- Policy misalignment or ambiguity
- Violations of AP Style or inconsistent tone
- Opportunities to simplify or professionalize the writing
- Be specific in your feedback. When suggesting changes, reference the affected section and propose revised wording or structure where appropriate.
- Focus solely on editing and improving the report itself. Do **not** add calls to action, summaries, or next steps for the user.

OUTPUT RULES
- Use plain text with *italic* and **bold** emphasis, and "- " at the start of a line for list items.
- Do not include code blocks or any other markup.
- Use paragraph breaks and lists to make feedback easy to scan.

Your tone should be professional, precise, and helpful. Do not flatter the author or offer generic praise unless it supports a specific improvement.`,

	driven.PromptReviewRequest: `Please review this staff report and provide detailed feedback.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.reportdraft/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".reportdraft", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Report Draft Prompts

This directory contains the prompts sent with draft and review requests.

## Files

- ` + "`draft_instructions.txt`" + ` - System text for drafting report sections
- ` + "`draft_request.txt`" + ` - Default request shown on the controls surface
- ` + "`review_instructions.txt`" + ` - System text for reviews
- ` + "`review_request.txt`" + ` - Request sent with every review

## Customisation

Edit any file to change what the model is told. The TUI and MCP server
reload prompts when a file changes; other commands read them on start.
Prompts are sent as-is; they carry no placeholders.
`
	return os.WriteFile(path, []byte(content), 0600)
}
