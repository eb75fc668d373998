package mcpserver

// DailyNoteFormat describes the daily-note naming and task conventions
// the scanner recognizes. LLM consumers should follow it when telling
// users how to structure their vault.
const DailyNoteFormat = `# Daily Note Format

The heatmap scanner only counts Markdown files whose names encode a date.

## File naming

` + "```" + `
DD-MMM-YYYY.md
` + "```" + `

- ` + "`" + `DD` + "`" + ` is the zero-padded day of month (01-31).
- ` + "`" + `MMM` + "`" + ` is the three-letter English month abbreviation, capitalized
  exactly: Jan, Feb, Mar, Apr, May, Jun, Jul, Aug, Sep, Oct, Nov, Dec.
  Localized or lowercase month names are NOT recognized.
- ` + "`" + `YYYY` + "`" + ` is the four-digit year.
- Example: ` + "`" + `05-Mar-2024.md` + "`" + `. Files with other names are ignored.
- If two files in different folders encode the same date, the one with
  the lexicographically later path wins.

## Tasks

Tasks are Markdown checkbox list items:

` + "```" + `markdown
- [ ] open task
- [x] completed task
* [X] completed task (asterisk bullets and uppercase X also count)
- [_] open task (underscore is treated as an open box)
` + "```" + `

Only ` + "`" + `x` + "`" + ` or ` + "`" + `X` + "`" + ` in the box means completed. A checkbox with no
text after it is shown as "(Empty task)".

## Tags

Inline ` + "`" + `#tags` + "`" + ` anywhere in the file are collected per day; tags inside
a task line also attach to that task. Tag characters are letters,
digits, underscore, and hyphen.

## Color buckets

Each day maps to a discrete intensity bucket from its completed count:
no note = empty, 0 completed = lightest, 1 = light, 2-3 = medium,
4 or more = darkest.
`
