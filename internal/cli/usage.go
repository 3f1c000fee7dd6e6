package cli

const usageMain = `Usage: studyledger [-config <file>] <command> [arguments]

Commands:
  plan      start, list, modify or remove study plans
  subject   add, list, modify, remove, mark or unmark subjects
  add       add minutes to a subject on a day
  subtract  remove minutes from a subject on a day
  set       replace the minutes of a subject on a day
  status    show today's and this week's study time
  export    write daily, weekly or monthly tables to files
  version   print the version and schema version
  help      show help for a command

Dates use the configured date_format (default mm-dd-yyyy).
Run "studyledger help <command>" for details.
`

const usagePlan = `Usage:
  studyledger plan start [<start>] <end> <description>
  studyledger plan list
  studyledger plan modify [--plan <id>] [--start <date>] [--end <date>] [--description <text>]
  studyledger plan remove [<id>] [--confirm]

Without an id the plan covering today is used. Plans can't overlap,
a plan ending on the day another starts counts as overlapping.
`

const usageSubject = `Usage:
  studyledger subject add [--plan <id>] <short_name> <name>
  studyledger subject list [--plan <id>]
  studyledger subject modify [--plan <id>] <subject> [--short-name <s>] [--name <s>]
  studyledger subject remove [--plan <id>] <subject> [--confirm]
  studyledger subject mark [--plan <id>] <subject> <score>
  studyledger subject unmark [--plan <id>] <subject>

<subject> is an id or a short name. Short names are unique within a plan
and can't be numbers.
`

const usageEntry = `Usage:
  studyledger add [--plan <id>] [<date>] <subject> <minutes>
  studyledger subtract [--plan <id>] [<date>] <subject> <minutes>
  studyledger set [--plan <id>] [<date>] <subject> <minutes>

The date defaults to today and selects the plan covering it.
Subtracting more than was recorded is an error. Setting 0 clears the day.
`

const usageStatus = `Usage:
  studyledger status [--plan <id>] [<date>]

Shows the time studied on the day and in its week, compared with the
previous week and with the weekly average of the plan so far.
`

const usageExport = `Usage:
  studyledger export [--plan <id>] [--start <date>] [--end <date>] [--format csv|xlsx|ics] daily|weekly|monthly|all

Files are written to export_dir. The range defaults to the whole plan.
`

var commandUsage = map[string]string{
	"plan":     usagePlan,
	"subject":  usageSubject,
	"add":      usageEntry,
	"subtract": usageEntry,
	"set":      usageEntry,
	"status":   usageStatus,
	"export":   usageExport,
}
