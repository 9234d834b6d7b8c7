package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"rename_gateway/internal/models"
	"rename_gateway/internal/repair"
)

const renameSystemPrompt = `You are a file naming assistant. Based on the file content, suggest a short descriptive file name.
Respond with a JSON object only: {"suggested_name": "...", "confidence": 0.0, "reasoning": "..."}.
The suggested name must not include an extension and must use only letters, digits and underscores.`

const folderPlanSystemPrompt = `You are a document organization assistant. Group the given files into logically named folders.
Respond with a JSON object only: {"folders": [{"name": "...", "files": ["..."]}], "confidence": 0.0, "reasoning": "..."}.
Every file must appear in exactly one folder.`

// fallbackNameConfidence marks names that were not produced by any
// provider, only derived from the original file name.
const fallbackNameConfidence = 0.1

// maxContentChars bounds how much extracted content goes into a
// prompt. Rename decisions rarely benefit from more.
const maxContentChars = 4000

// GenerateSuggestedName asks the plan's chain for a descriptive file
// name and repairs whatever comes back. A total routing failure falls
// back to the sanitized original name stem so the caller always gets
// a usable result.
func (e *Engine) GenerateSuggestedName(ctx context.Context, content, fileName, fileType, plan, customInstructions string) models.RenameResult {
	prompt := buildRenamePrompt(content, fileName, fileType, customInstructions)

	resp := e.Route(ctx, models.ProviderRequest{
		Kind:         models.ContentText,
		Prompt:       prompt,
		SystemPrompt: renameSystemPrompt,
		Stage:        models.StageDefault,
	}, plan)

	if !resp.Success {
		stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		return models.RenameResult{
			SuggestedName: repair.SanitizeName(stem),
			Confidence:    fallbackNameConfidence,
			Reasoning:     "no provider produced a suggestion; kept original name",
		}
	}

	return repair.Rename(resp.Content)
}

// PlanFolderStructure asks the plan's stage-"a" chain for a folder
// grouping of the given files. Routing failure degrades to the repair
// strategy's single-folder fallback; the caller always gets a plan.
func (e *Engine) PlanFolderStructure(ctx context.Context, files []string, plan, customInstructions string) models.FolderPlan {
	resp := e.Route(ctx, models.ProviderRequest{
		Kind:         models.ContentText,
		Prompt:       buildFolderPlanPrompt(files, customInstructions),
		SystemPrompt: folderPlanSystemPrompt,
		Stage:        models.StageStructure,
	}, plan)

	if !resp.Success {
		return repair.FolderPlan("", files)
	}

	return repair.FolderPlan(resp.Content, files)
}

func buildRenamePrompt(content, fileName, fileType, customInstructions string) string {
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current file name: %s\n", fileName)
	if fileType != "" {
		fmt.Fprintf(&b, "File type: %s\n", fileType)
	}
	if customInstructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", customInstructions)
	}
	fmt.Fprintf(&b, "\nFile content:\n%s\n", content)
	return b.String()
}

func buildFolderPlanPrompt(files []string, customInstructions string) string {
	var b strings.Builder
	if customInstructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", customInstructions)
	}
	b.WriteString("Files to organize:\n")
	for _, f := range files {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return b.String()
}
