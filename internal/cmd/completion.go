package cmd

import (
	"fmt"
	"io"
	"os"
)

type CompletionCmd struct {
	Shell string `arg:"" help:"Shell type: bash, zsh, or fish"`
}

func (c *CompletionCmd) Run() error {
	return c.write(os.Stdout)
}

func (c *CompletionCmd) write(w io.Writer) error {
	var script string
	switch c.Shell {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", c.Shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

const bashCompletion = `# bash completion for platebatch

_platebatch_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main commands
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        opts="batch inspect profiles version completion"
        COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        return 0
    fi

    case "${prev}" in
        -c|--config)
            COMPREPLY=( $(compgen -f -X '!*.@(yaml|yml)' -- ${cur}) )
            return 0
            ;;
        --cache)
            COMPREPLY=( $(compgen -W "file bolt" -- ${cur}) )
            return 0
            ;;
        --padding|--margin|--style)
            return 0
            ;;
    esac

    case "${COMP_WORDS[1]}" in
        batch)
            opts="-c --config --padding --margin --cache --no-slice --placements -v --verbose -h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
            ;;
        inspect)
            if [[ ${cur} == -* ]]; then
                opts="-c --config --padding -h --help"
                COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
            else
                COMPREPLY=( $(compgen -f -X '!*.@(stl|STL|3mf)' -- ${cur}) )
            fi
            ;;
        profiles)
            opts="-c --config --plain --style -h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
            ;;
        completion)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            fi
            ;;
    esac
    return 0
}

complete -F _platebatch_completions platebatch
`

const zshCompletion = `#compdef platebatch

_platebatch() {
    local -a commands
    commands=(
        'batch:Slice models, pack them onto build plates and report print runs'
        'inspect:Show the footprint of a model and which beds it fits'
        'profiles:Show the resolved printer configuration'
        'version:Show version information'
        'completion:Generate shell completion script'
    )

    local -a batch_opts
    batch_opts=(
        '(-c --config)'{-c,--config}'[Configuration file]:config file:_files -g "*.{yaml,yml}"'
        '--padding[Padding in mm added to every model]:mm:'
        '--margin[Extra gap in mm between models]:mm:'
        '--cache[Cache backend]:backend:(file bolt)'
        '--no-slice[Never run the slicer]'
        '--placements[Show model positions in the report]'
        '(-v --verbose)'{-v,--verbose}'[Show every step]'
        '(-h --help)'{-h,--help}'[Show help]'
    )

    local -a inspect_opts
    inspect_opts=(
        '(-c --config)'{-c,--config}'[Configuration file]:config file:_files -g "*.{yaml,yml}"'
        '--padding[Padding in mm]:mm:'
        '(-h --help)'{-h,--help}'[Show help]'
        '*:model file:_files -g "*.{stl,STL,3mf}"'
    )

    local -a profiles_opts
    profiles_opts=(
        '(-c --config)'{-c,--config}'[Configuration file]:config file:_files -g "*.{yaml,yml}"'
        '--plain[Print without syntax highlighting]'
        '--style[Highlighting style]:style:'
        '(-h --help)'{-h,--help}'[Show help]'
    )

    _arguments -C \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                batch)
                    _arguments $batch_opts
                    ;;
                inspect)
                    _arguments $inspect_opts
                    ;;
                profiles)
                    _arguments $profiles_opts
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
                version)
                    _arguments '(-h --help)'{-h,--help}'[Show help]'
                    ;;
            esac
            ;;
    esac
}

_platebatch
`

const fishCompletion = `# fish completion for platebatch

# Main commands
complete -c platebatch -f -n "__fish_use_subcommand" -a "batch" -d "Slice models, pack them and report print runs"
complete -c platebatch -f -n "__fish_use_subcommand" -a "inspect" -d "Show the footprint of a model"
complete -c platebatch -f -n "__fish_use_subcommand" -a "profiles" -d "Show the resolved printer configuration"
complete -c platebatch -f -n "__fish_use_subcommand" -a "version" -d "Show version information"
complete -c platebatch -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# batch command options
complete -c platebatch -f -n "__fish_seen_subcommand_from batch" -s c -l config -d "Configuration file" -r -a "(__fish_complete_suffix .yaml)"
complete -c platebatch -f -n "__fish_seen_subcommand_from batch" -l padding -d "Padding in mm" -r
complete -c platebatch -f -n "__fish_seen_subcommand_from batch" -l margin -d "Extra gap in mm between models" -r
complete -c platebatch -f -n "__fish_seen_subcommand_from batch" -l cache -d "Cache backend" -r -a "file bolt"
complete -c platebatch -f -n "__fish_seen_subcommand_from batch" -l no-slice -d "Never run the slicer"
complete -c platebatch -f -n "__fish_seen_subcommand_from batch" -l placements -d "Show model positions"
complete -c platebatch -f -n "__fish_seen_subcommand_from batch" -s v -l verbose -d "Show every step"

# inspect command options
complete -c platebatch -f -n "__fish_seen_subcommand_from inspect" -s c -l config -d "Configuration file" -r -a "(__fish_complete_suffix .yaml)"
complete -c platebatch -f -n "__fish_seen_subcommand_from inspect" -l padding -d "Padding in mm" -r
complete -c platebatch -n "__fish_seen_subcommand_from inspect" -a "(__fish_complete_suffix .stl)" -d "STL file"
complete -c platebatch -n "__fish_seen_subcommand_from inspect" -a "(__fish_complete_suffix .3mf)" -d "3MF file"

# profiles command options
complete -c platebatch -f -n "__fish_seen_subcommand_from profiles" -s c -l config -d "Configuration file" -r -a "(__fish_complete_suffix .yaml)"
complete -c platebatch -f -n "__fish_seen_subcommand_from profiles" -l plain -d "Print without syntax highlighting"
complete -c platebatch -f -n "__fish_seen_subcommand_from profiles" -l style -d "Highlighting style" -r

# completion command options
complete -c platebatch -f -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`

func (c *CompletionCmd) Help() string {
	return `
Generate shell completion scripts for platebatch.

Examples:
  # Bash
  platebatch completion bash > ~/.local/share/bash-completion/completions/platebatch

  # Zsh
  platebatch completion zsh > ~/.zsh/completion/_platebatch

  # Fish
  platebatch completion fish > ~/.config/fish/completions/platebatch.fish
`
}
