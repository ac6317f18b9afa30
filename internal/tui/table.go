// Package tui provides terminal user interface components for droidtask.
package tui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskpilot/droidtask/internal/domain"
)

// TableColumn defines a column in a table.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
}

// Alignment defines text alignment in a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// Table provides styled table rendering.
type Table struct {
	w       io.Writer
	styles  *TableStyles
	columns []TableColumn
}

// NewTable creates a new table with the given columns.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{
		w:       w,
		styles:  NewTableStyles(),
		columns: columns,
	}
}

// WriteHeader writes the table header row.
func (t *Table) WriteHeader() {
	header := ""
	for i, col := range t.columns {
		if i > 0 {
			header += " "
		}
		format := t.formatSpec(col)
		header += fmt.Sprintf(format, col.Name)
	}
	_, _ = fmt.Fprintln(t.w, t.styles.Header.Render(header))
}

// WriteRow writes a data row to the table.
func (t *Table) WriteRow(values ...string) {
	row := ""
	for i, col := range t.columns {
		if i > 0 {
			row += " "
		}
		format := t.formatSpec(col)
		value := ""
		if i < len(values) {
			value = values[i]
		}
		// Truncate if needed (require Width > 1 to avoid slice bounds panic)
		if col.Width > 1 && len(value) > col.Width {
			value = value[:col.Width-1] + "…"
		}
		row += fmt.Sprintf(format, value)
	}
	_, _ = fmt.Fprintln(t.w, row)
}

// WriteStyledRow writes a data row with one styled cell.
func (t *Table) WriteStyledRow(values []string, styledIndex int, styledValue, plainValue string) {
	row := ""
	for i, col := range t.columns {
		if i > 0 {
			row += " "
		}
		format := t.formatSpec(col)

		if i == styledIndex {
			// Account for ANSI escape codes in width calculation
			offset := len(styledValue) - len(plainValue)
			adjustedFormat := t.formatSpecWithOffset(col, offset)
			row += fmt.Sprintf(adjustedFormat, styledValue)
		} else {
			value := ""
			if i < len(values) {
				value = values[i]
			}
			// Truncate if needed (require Width > 1 to avoid slice bounds panic)
			if col.Width > 1 && len(value) > col.Width {
				value = value[:col.Width-1] + "…"
			}
			row += fmt.Sprintf(format, value)
		}
	}
	_, _ = fmt.Fprintln(t.w, row)
}

// formatSpec returns the format specifier for a column.
func (t *Table) formatSpec(col TableColumn) string {
	switch col.Align {
	case AlignRight:
		return fmt.Sprintf("%%%ds", col.Width)
	case AlignLeft, AlignCenter:
		return fmt.Sprintf("%%-%ds", col.Width)
	default:
		return fmt.Sprintf("%%-%ds", col.Width)
	}
}

// formatSpecWithOffset returns the format specifier with width adjusted for ANSI codes.
func (t *Table) formatSpecWithOffset(col TableColumn, offset int) string {
	width := col.Width + offset
	switch col.Align {
	case AlignRight:
		return fmt.Sprintf("%%%ds", width)
	case AlignLeft, AlignCenter:
		return fmt.Sprintf("%%-%ds", width)
	default:
		return fmt.Sprintf("%%-%ds", width)
	}
}

// ColorOffset calculates the difference in visible vs actual length due to ANSI codes.
func ColorOffset(rendered, plain string) int {
	return len(rendered) - len(plain)
}

// ========================================
// StatusTable - Task Run Status Display
// ========================================

// MinColumnWidths defines the minimum width for each status table column.
// Used to ensure readability even with short content.
//
//nolint:gochecknoglobals // Intentional package-level constant for status table minimum widths
var MinColumnWidths = StatusColumnWidths{
	TaskID:  10,
	Handler: 12,
	Status:  18,
	Step:    6,
	Action:  10,
}

// StatusColumnWidths holds the widths for each status table column.
type StatusColumnWidths struct {
	TaskID  int
	Handler int
	Status  int
	Step    int
	Action  int
}

// StatusRow represents one row in the status table.
// Contains all fields needed to display a single task's execution state.
type StatusRow struct {
	// TaskID identifies the task (e.g., the raw task string or a short id).
	TaskID string
	// Handler is the module that claimed the task (e.g., "wechat", "system").
	Handler     string
	Status      domain.TaskStatus
	CurrentStep int
	TotalSteps  int
	// StepName is the action of the currently executing step (e.g., "tap", "locate").
	StepName string
	// Action is a suggested follow-up, if any (e.g., "retry"). Empty means none.
	Action string
}

// StatusTableConfig holds configuration for the status table.
type StatusTableConfig struct {
	// TerminalWidth is the detected terminal width (or forced width for testing).
	TerminalWidth int
	// Narrow indicates whether to use abbreviated headers (< NarrowTerminalWidth cols).
	Narrow bool
}

// StatusTableOption is a functional option for StatusTable configuration.
type StatusTableOption func(*StatusTable)

// WithTerminalWidth sets a specific terminal width (useful for testing).
func WithTerminalWidth(width int) StatusTableOption {
	return func(t *StatusTable) {
		t.config.TerminalWidth = width
		t.config.Narrow = width > 0 && width < NarrowTerminalWidth
	}
}

// StatusTable renders task status rows in a formatted table (AC: #1, #2).
// Render writes styled TTY output; ToTableData and ToJSONData return plain rows.
type StatusTable struct {
	rows   []StatusRow
	styles *TableStyles
	config StatusTableConfig
}

// NewStatusTable creates a new status table with the given rows.
// Automatically detects terminal width and narrow mode.
func NewStatusTable(rows []StatusRow, opts ...StatusTableOption) *StatusTable {
	t := &StatusTable{
		rows:   rows,
		styles: NewTableStyles(),
		config: StatusTableConfig{
			TerminalWidth: detectTerminalWidth(),
		},
	}

	// Apply terminal width detection first
	t.config.Narrow = t.config.TerminalWidth > 0 && t.config.TerminalWidth < NarrowTerminalWidth

	// Apply any options (may override width/narrow settings)
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// detectTerminalWidth returns the current terminal width.
// Returns 80 if detection fails (assume standard terminal).
func detectTerminalWidth() int {
	if width := TerminalWidth(); width > 0 {
		return width
	}
	return 80
}

// IsNarrow returns true if the terminal is in narrow mode (< NarrowTerminalWidth cols).
func (t *StatusTable) IsNarrow() bool {
	return t.config.Narrow
}

// Headers returns the column headers, abbreviated if in narrow mode.
func (t *StatusTable) Headers() []string {
	if t.config.Narrow {
		return []string{"TASK", "HANDLER", "STAT", "STEP", "ACT"}
	}
	return []string{"TASK", "HANDLER", "STATUS", "STEP", "ACTION"}
}

// FullHeaders returns the full (non-abbreviated) column headers.
// Used for JSON output which should always use full names.
func (t *StatusTable) FullHeaders() []string {
	return []string{"TASK", "HANDLER", "STATUS", "STEP", "ACTION"}
}

// Render writes the formatted table to the writer.
// Uses bold header styling and proper column alignment.
func (t *StatusTable) Render(w io.Writer) error {
	headers := t.Headers()
	widths := t.calculateColumnWidths()
	widthsSlice := []int{widths.TaskID, widths.Handler, widths.Status, widths.Step, widths.Action}

	// Render header row with bold styling
	headerParts := make([]string, len(headers))
	for i, h := range headers {
		headerParts[i] = t.styles.Header.Render(padRight(h, widthsSlice[i]))
	}
	_, err := fmt.Fprintln(w, strings.Join(headerParts, "  "))
	if err != nil {
		return err
	}

	// Render data rows
	for _, row := range t.rows {
		rowCells := []string{
			padRight(row.TaskID, widths.TaskID),
			padRight(row.Handler, widths.Handler),
			t.renderStatusCellPadded(row.Status, widths.Status),
			padRight(t.formatStep(row.CurrentStep, row.TotalSteps, row.StepName, row.Status), widths.Step),
			t.renderActionCellPadded(row.Status, row.Action, widths.Action),
		}
		_, err = fmt.Fprintln(w, strings.Join(rowCells, "  "))
		if err != nil {
			return err
		}
	}

	return nil
}

// ToTableData converts the table to plain header and row string slices.
// Returns headers and rows as string slices.
// Uses abbreviated headers in narrow mode.
func (t *StatusTable) ToTableData() ([]string, [][]string) {
	headers := t.Headers()

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = []string{
			row.TaskID,
			row.Handler,
			t.renderStatusCellPlain(row.Status), // Plain for data transfer
			t.formatStep(row.CurrentStep, row.TotalSteps, row.StepName, row.Status),
			t.renderActionCellPlain(row.Status, row.Action), // Plain for data transfer
		}
	}
	return headers, rows
}

// ToJSONData converts the table to JSON-compatible format.
// Returns headers and rows with full (non-abbreviated) header names.
func (t *StatusTable) ToJSONData() ([]string, [][]string) {
	headers := t.FullHeaders() // Always use full headers for JSON

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = []string{
			row.TaskID,
			row.Handler,
			t.renderStatusCellPlain(row.Status),
			t.formatStep(row.CurrentStep, row.TotalSteps, row.StepName, row.Status),
			t.renderActionCellPlain(row.Status, row.Action), // Plain for JSON
		}
	}
	return headers, rows
}

// Rows returns a copy of the status rows (useful for iteration).
// Returns a copy to prevent external mutation of internal state.
func (t *StatusTable) Rows() []StatusRow {
	if t.rows == nil {
		return nil
	}
	result := make([]StatusRow, len(t.rows))
	copy(result, t.rows)
	return result
}

// WideTerminalThreshold is the minimum terminal width for proportional column expansion.
// Terminals 120+ columns wide get proportionally expanded columns.
const WideTerminalThreshold = 120

// calculateColumnWidths calculates widths for each column based on content.
// Uses utf8.RuneCountInString for proper Unicode handling.
// For wide terminals (120+ cols), applies proportional width expansion.
func (t *StatusTable) calculateColumnWidths() StatusColumnWidths {
	widthsSlice := t.initializeMinWidths()
	t.updateWidthsFromContent(widthsSlice)
	widthsSlice = t.applyWidthConstraints(widthsSlice)

	return StatusColumnWidths{
		TaskID:  widthsSlice[0],
		Handler: widthsSlice[1],
		Status:  widthsSlice[2],
		Step:    widthsSlice[3],
		Action:  widthsSlice[4],
	}
}

// initializeMinWidths creates the initial width slice using minimum widths and headers.
func (t *StatusTable) initializeMinWidths() []int {
	headers := t.Headers()
	return []int{
		max(MinColumnWidths.TaskID, utf8.RuneCountInString(headers[0])),
		max(MinColumnWidths.Handler, utf8.RuneCountInString(headers[1])),
		max(MinColumnWidths.Status, utf8.RuneCountInString(headers[2])),
		max(MinColumnWidths.Step, utf8.RuneCountInString(headers[3])),
		max(MinColumnWidths.Action, utf8.RuneCountInString(headers[4])),
	}
}

// updateWidthsFromContent expands widths based on actual row content.
func (t *StatusTable) updateWidthsFromContent(widths []int) {
	for _, row := range t.rows {
		// TaskID
		if w := utf8.RuneCountInString(row.TaskID); w > widths[0] {
			widths[0] = w
		}

		// Handler
		if w := utf8.RuneCountInString(row.Handler); w > widths[1] {
			widths[1] = w
		}

		// Status (icon + space + status text)
		statusCell := t.renderStatusCellPlain(row.Status)
		if w := utf8.RuneCountInString(statusCell); w > widths[2] {
			widths[2] = w
		}

		// Step
		stepCell := t.formatStep(row.CurrentStep, row.TotalSteps, row.StepName, row.Status)
		if w := utf8.RuneCountInString(stepCell); w > widths[3] {
			widths[3] = w
		}

		// Action (use plain version for width calculation to avoid ANSI codes)
		actionCell := t.renderActionCellPlain(row.Status, row.Action)
		if w := utf8.RuneCountInString(actionCell); w > widths[4] {
			widths[4] = w
		}
	}
}

// applyWidthConstraints constrains widths to terminal and applies proportional expansion.
func (t *StatusTable) applyWidthConstraints(widths []int) []int {
	// Constrain to terminal width first to ensure all columns are visible
	widths = t.constrainToTerminalWidth(widths)

	// Apply proportional width expansion for wide terminals (WideTerminalThreshold+ cols) (Task 2.5)
	if t.config.TerminalWidth >= WideTerminalThreshold {
		widths = t.applyProportionalExpansion(widths)
	}

	return widths
}

// applyProportionalExpansion distributes extra terminal width among columns.
// Only expands variable-width columns (TaskID, Handler, Action).
// Fixed-width columns (Status, Step) remain unchanged for consistency.
func (t *StatusTable) applyProportionalExpansion(widths []int) []int {
	// Calculate current total width (columns + separators)
	// 5 columns with 2-space separators = 4 separators * 2 chars = 8 chars
	const separatorWidth = 8
	totalContentWidth := 0
	for _, w := range widths {
		totalContentWidth += w
	}
	totalWidth := totalContentWidth + separatorWidth

	// Calculate available extra space
	extraSpace := t.config.TerminalWidth - totalWidth
	if extraSpace <= 0 {
		return widths // No extra space to distribute
	}

	// Only expand variable-width columns: TaskID (0), Handler (1), Action (4)
	// Status (2) and Step (3) are fixed-width for visual consistency
	expandableIndices := []int{0, 1, 4}
	expandableTotal := widths[0] + widths[1] + widths[4]

	if expandableTotal == 0 {
		return widths // Avoid division by zero
	}

	// Distribute extra space proportionally among expandable columns
	// Cap expansion at 50% of original width to avoid overly wide columns
	result := make([]int, len(widths))
	copy(result, widths)

	for _, idx := range expandableIndices {
		proportion := float64(widths[idx]) / float64(expandableTotal)
		expansion := int(float64(extraSpace) * proportion)

		// Cap expansion at 50% of original width
		maxExpansion := widths[idx] / 2
		if expansion > maxExpansion {
			expansion = maxExpansion
		}

		result[idx] = widths[idx] + expansion
	}

	return result
}

// constrainToTerminalWidth reduces column widths to fit within terminal width.
// Prioritizes reducing variable-width columns (Handler, TaskID) while preserving
// fixed-width columns (Status, Step, Action) to ensure all columns are visible.
func (t *StatusTable) constrainToTerminalWidth(widths []int) []int {
	// Calculate total width (columns + separators)
	// 5 columns with 2-space separators = 4 separators * 2 chars = 8 chars
	const separatorWidth = 8
	totalContentWidth := 0
	for _, w := range widths {
		totalContentWidth += w
	}
	totalWidth := totalContentWidth + separatorWidth

	// If fits within terminal, no changes needed
	if t.config.TerminalWidth <= 0 || totalWidth <= t.config.TerminalWidth {
		return widths
	}

	// Calculate overflow amount
	overflow := totalWidth - t.config.TerminalWidth

	result := make([]int, len(widths))
	copy(result, widths)

	// Reduce Handler column first (index 1), then TaskID (index 0) if needed
	// These are variable-width columns that can be truncated
	reduceableIndices := []int{1, 0} // Handler first, then TaskID

	for _, idx := range reduceableIndices {
		if overflow <= 0 {
			break
		}

		// Calculate maximum reduction (current width - minimum width)
		minWidth := MinColumnWidths.Handler
		if idx == 0 {
			minWidth = MinColumnWidths.TaskID
		}

		maxReduction := result[idx] - minWidth
		if maxReduction <= 0 {
			continue // Already at minimum
		}

		// Apply reduction (up to max allowed)
		reduction := overflow
		if reduction > maxReduction {
			reduction = maxReduction
		}

		result[idx] -= reduction
		overflow -= reduction
	}

	return result
}

// renderStatusCell creates the status cell content with icon and colored text.
// Uses triple redundancy: icon + color + text.
func (t *StatusTable) renderStatusCell(status domain.TaskStatus) string {
	icon := TaskStatusIcon(status)
	color := TaskStatusColors()[status]
	style := lipgloss.NewStyle().Foreground(color)
	return icon + " " + style.Render(string(status))
}

// renderStatusCellPlain creates the status cell content without ANSI color codes.
// Used for JSON output and width calculations.
func (t *StatusTable) renderStatusCellPlain(status domain.TaskStatus) string {
	icon := TaskStatusIcon(status)
	return icon + " " + string(status)
}

// renderActionCell creates the action cell content.
// Returns the custom action or em-dash if none is set.
// For attention states, applies warning color styling.
// Maintains triple redundancy: icon + color + text for attention states.
func (t *StatusTable) renderActionCell(status domain.TaskStatus, customAction string) string {
	if customAction == "" {
		return "—" // Em-dash for no action
	}

	// Apply warning styling for attention states.
	// NO_COLOR mode uses "(!) " prefix for accessibility (triple redundancy)
	if IsAttentionStatus(status) {
		if !HasColorSupport() {
			return "(!) " + customAction
		}
		return ActionStyle().Render(customAction)
	}
	return customAction
}

// renderActionCellPlain creates the action cell content without ANSI codes.
// Used for JSON output and width calculations.
func (t *StatusTable) renderActionCellPlain(status domain.TaskStatus, customAction string) string {
	if customAction == "" {
		return "—" // Em-dash for no action
	}

	// For attention states in NO_COLOR mode, include the prefix
	if IsAttentionStatus(status) && !HasColorSupport() {
		return "(!) " + customAction
	}
	return customAction
}

// humanizeStepName converts internal step action names to user-friendly labels.
func humanizeStepName(name string) string {
	mapping := map[string]string{
		"locate":     "Locating",
		"tap":        "Tapping",
		"swipe":      "Swiping",
		"type_text":  "Typing",
		"press_key":  "Pressing Key",
		"launch_app": "Launching App",
		"wait":       "Waiting",
		"screenshot": "Capturing Screen",
	}
	if label, ok := mapping[name]; ok {
		return label
	}
	return name // fallback to raw name
}

// formatStep formats the step counter as "current/total" with optional step name for running tasks.
func (t *StatusTable) formatStep(current, total int, stepName string, status domain.TaskStatus) string {
	base := fmt.Sprintf("%d/%d", current, total)
	// Only show step name for running tasks
	if stepName != "" && status == domain.TaskStatusRunning {
		return fmt.Sprintf("%s %s", base, humanizeStepName(stepName))
	}
	return base
}

// renderStatusCellPadded renders the status cell with proper padding.
// Padding is calculated based on visible character width (excluding ANSI codes).
func (t *StatusTable) renderStatusCellPadded(status domain.TaskStatus, width int) string {
	// Get the plain text version for width calculation
	plainText := t.renderStatusCellPlain(status)
	plainWidth := utf8.RuneCountInString(plainText)

	// Get the styled version
	styledText := t.renderStatusCell(status)

	// Calculate padding needed
	if plainWidth >= width {
		return styledText
	}
	return styledText + strings.Repeat(" ", width-plainWidth)
}

// renderActionCellPadded renders the action cell with proper padding.
// Padding is calculated based on visible character width (excluding ANSI codes).
func (t *StatusTable) renderActionCellPadded(status domain.TaskStatus, customAction string, width int) string {
	// Get the plain text version for width calculation
	plainText := t.renderActionCellPlain(status, customAction)
	plainWidth := utf8.RuneCountInString(plainText)

	// Get the styled version
	styledText := t.renderActionCell(status, customAction)

	// Calculate padding needed
	if plainWidth >= width {
		return styledText
	}
	return styledText + strings.Repeat(" ", width-plainWidth)
}

