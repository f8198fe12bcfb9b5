package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values (show fragments)
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments
}

// completionMeta holds completion hints that the FlagSet cannot express.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"loader": {Values: []string{"line", "dots", "none"}},
	"color":  {Values: []string{"auto", "always", "never"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml,*.hcl"},
	"logo":   {FileGlob: "*.svg,*.png,*.jpg,*.jpeg,*.gif,*.webp"},

	// Directory flags
	"output":     {IsDir: true},
	"public-dir": {IsDir: true},
	"asset-path": {IsDir: true},
	"root":       {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags come from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "inject",
			Desc:        "Inject the splash screen into HTML pages",
			Flags:       extractFlagsFromFlagSet(newInjectFlagSet(&injectFlags{})),
			TakesFiles:  true,
			FilePattern: "*.html,*.htm",
		},
		{
			Name:        "check",
			Desc:        "Verify injected pages",
			Flags:       extractFlagsFromFlagSet(newCheckFlagSet(&checkFlags{})),
			TakesFiles:  true,
			FilePattern: "*.html,*.htm",
		},
		{
			Name:        "preview",
			Desc:        "Load a page in a headless browser",
			Flags:       extractFlagsFromFlagSet(newPreviewFlagSet(&previewFlags{})),
			TakesFiles:  true,
			FilePattern: "*.html,*.htm",
		},
		{
			Name:  "show",
			Desc:  "Print generated CSS, markup and scripts",
			Flags: extractFlagsFromFlagSet(newShowFlagSet(&showFlags{})),
			Args:  fragmentNames(),
		},
		{
			Name:  "doctor",
			Desc:  "Check system configuration",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "print results as JSON"}},
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// errWriter keeps the first write error so generators can write freely.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// globExtensions turns "*.svg,*.png" into []string{"svg", "png"}.
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

// ----------------------------------------------------------------------------
// Bash
// ----------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	cmds := getCommands()
	out := &errWriter{w: w}

	out.printf("# bash completion for splash\n\n")
	out.printf("_splash_completions() {\n")
	out.printf("    local cur prev cmd\n")
	out.printf("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	out.printf("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	out.printf("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	out.printf("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	out.printf("        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(commandNames(cmds), " "))
	out.printf("        return\n")
	out.printf("    fi\n\n")
	out.printf("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		out.printf("    %s)\n", c.Name)

		// Flag values
		var valueCases []string
		for _, f := range c.Flags {
			var action string
			switch f.Type {
			case flagEnum:
				action = fmt.Sprintf("COMPREPLY=($(compgen -W %q -- \"${cur}\"))", strings.Join(f.Values, " "))
			case flagFile:
				action = fmt.Sprintf("COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\"))", strings.Join(globExtensions(f.FileGlob), "|"))
			case flagDir:
				action = "COMPREPLY=($(compgen -d -- \"${cur}\"))"
			case flagString, flagInt:
				action = "COMPREPLY=()"
			default:
				continue
			}
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern += "|-" + f.Short
			}
			valueCases = append(valueCases, fmt.Sprintf("            %s)\n                %s\n                return\n                ;;\n", pattern, action))
		}
		if len(valueCases) > 0 {
			out.printf("        case \"${prev}\" in\n")
			for _, vc := range valueCases {
				out.printf("%s", vc)
			}
			out.printf("        esac\n")
		}

		// Flag names
		var names []string
		for _, f := range c.Flags {
			names = append(names, "--"+f.Long)
			if f.Short != "" {
				names = append(names, "-"+f.Short)
			}
		}
		if len(names) > 0 {
			out.printf("        if [[ \"${cur}\" == -* ]]; then\n")
			out.printf("            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(names, " "))
			out.printf("            return\n")
			out.printf("        fi\n")
		}

		// Positional arguments
		switch {
		case len(c.Args) > 0:
			out.printf("        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(c.Args, " "))
		case c.Name == "help":
			out.printf("        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(commandNames(cmds), " "))
		case c.TakesFiles:
			out.printf("        COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n",
				strings.Join(globExtensions(c.FilePattern), "|"))
		}
		out.printf("        ;;\n")
	}

	out.printf("    esac\n")
	out.printf("}\n\n")
	out.printf("shopt -s extglob 2>/dev/null\n")
	out.printf("complete -F _splash_completions splash\n")
	return out.err
}

// ----------------------------------------------------------------------------
// Zsh
// ----------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	out := &errWriter{w: w}

	out.printf("#compdef splash\n\n")
	out.printf("_splash() {\n")
	out.printf("    local -a commands\n")
	out.printf("    commands=(\n")
	for _, c := range cmds {
		out.printf("        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	out.printf("    )\n\n")
	out.printf("    if (( CURRENT == 2 )); then\n")
	out.printf("        _describe 'command' commands\n")
	out.printf("        return\n")
	out.printf("    fi\n\n")
	out.printf("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		out.printf("    %s)\n", c.Name)
		out.printf("        _arguments \\\n")
		for _, f := range c.Flags {
			spec := zshFlagSpec(f)
			if f.Short != "" {
				out.printf("            '(-%s --%s)'{-%s,--%s}'%s' \\\n", f.Short, f.Long, f.Short, f.Long, spec)
			} else {
				out.printf("            '--%s%s' \\\n", f.Long, spec)
			}
		}
		switch {
		case len(c.Args) > 0:
			out.printf("            '*:argument:(%s)'\n", strings.Join(c.Args, " "))
		case c.Name == "help":
			out.printf("            '1:command:(%s)'\n", strings.Join(commandNames(cmds), " "))
		case c.TakesFiles:
			out.printf("            '*:file:_files -g \"*.(%s)\"'\n", strings.Join(globExtensions(c.FilePattern), "|"))
		default:
			out.printf("            '*: :'\n")
		}
		out.printf("        ;;\n")
	}

	out.printf("    esac\n")
	out.printf("}\n\n")
	out.printf("compdef _splash splash\n")
	return out.err
}

// zshFlagSpec returns the "[desc]:label:action" part of an _arguments spec.
func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"
	switch f.Type {
	case flagBool:
		return desc
	case flagEnum:
		return desc + ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		return desc + ":file:_files -g \"*.(" + strings.Join(globExtensions(f.FileGlob), "|") + ")\""
	case flagDir:
		return desc + ":directory:_files -/"
	default:
		return desc + ":" + f.Long + ":"
	}
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", `'\''`)
	s = strings.ReplaceAll(s, "[", `\[`)
	s = strings.ReplaceAll(s, "]", `\]`)
	return strings.ReplaceAll(s, ":", `\:`)
}

// ----------------------------------------------------------------------------
// Fish
// ----------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	cmds := getCommands()
	out := &errWriter{w: w}

	out.printf("# fish completion for splash\n\n")
	out.printf("function __fish_splash_needs_command\n")
	out.printf("    set -l cmd (commandline -opc)\n")
	out.printf("    test (count $cmd) -eq 1\n")
	out.printf("end\n\n")
	out.printf("function __fish_splash_using_command\n")
	out.printf("    set -l cmd (commandline -opc)\n")
	out.printf("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	out.printf("end\n\n")
	out.printf("complete -c splash -f\n")

	for _, c := range cmds {
		out.printf("complete -c splash -n '__fish_splash_needs_command' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	out.printf("\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("-n '__fish_splash_using_command %s'", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c splash %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			out.printf("%s -d '%s'\n", line, fishEscape(f.Desc))
		}
		switch {
		case len(c.Args) > 0:
			out.printf("complete -c splash %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.Name == "help":
			out.printf("complete -c splash %s -a '%s'\n", cond, strings.Join(commandNames(cmds), " "))
		case c.TakesFiles:
			out.printf("complete -c splash %s -F\n", cond)
		}
	}
	return out.err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// ----------------------------------------------------------------------------
// PowerShell
// ----------------------------------------------------------------------------

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	out := &errWriter{w: w}

	out.printf("# PowerShell completion for splash\n\n")
	out.printf("Register-ArgumentCompleter -Native -CommandName splash -ScriptBlock {\n")
	out.printf("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	out.printf("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	out.printf("    $commands = @{\n")
	for _, c := range cmds {
		out.printf("        '%s' = '%s'\n", c.Name, psEscape(c.Desc))
	}
	out.printf("    }\n\n")
	out.printf("    if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	out.printf("        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	out.printf("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])\n")
	out.printf("        }\n")
	out.printf("        return\n")
	out.printf("    }\n\n")
	out.printf("    $values = switch ($words[1]) {\n")
	for _, c := range cmds {
		var values []string
		for _, f := range c.Flags {
			values = append(values, "--"+f.Long)
			if f.Short != "" {
				values = append(values, "-"+f.Short)
			}
		}
		values = append(values, c.Args...)
		if c.Name == "help" {
			values = append(values, commandNames(cmds)...)
		}
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = "'" + v + "'"
		}
		out.printf("        '%s' { @(%s) }\n", c.Name, strings.Join(quoted, ", "))
	}
	out.printf("        default { @() }\n")
	out.printf("    }\n\n")
	out.printf("    $values | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	out.printf("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	out.printf("    }\n")
	out.printf("}\n")
	return out.err
}

func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: splash completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(splash completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(splash completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    splash completion fish > ~/.config/fish/completions/splash.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    splash completion powershell | Out-String | Invoke-Expression")
}
