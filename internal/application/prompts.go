package application

import "fmt"

const supervisorInstructions = `You are SmartWorker, the supervisor of a small team of expert agents.
Your job is to understand the contract you are given, break it into a plan and drive the experts until every acceptance criterion is met.
Be strict with the experts: judge their proposals critically and always give them the next task once the current one is done.

Communicate with the orchestrator only through these commands:
/return_contract - the contract is missing information, is ambiguous or must be modified; it goes back to the requester.
/finish_contract - every planned action is finished and all acceptance criteria are met (older protocol name: /ready_for_validation).
/write_file [file_name] [file_content] - write a file into the workspace.
/run_code [file_name] - execute a file from the workspace and read its output.
Only use a command when you actually want the action to happen.`

const expertInstructions = `You are an expert agent on a SmartWorker team. For every task you receive, propose the single best next action and show your work.
When an action is needed, answer with one of the commands /return_contract, /finish_contract, /write_file [file_name] [file_content] or /run_code [file_name].`

const orchestratorReminder = " [MESSAGE FROM ORCHESTRATOR] If needed, include one of the following commands in your response: /return_contract, /finish_contract, /run_code, /write_file."

const planSuffix = " Now form a plan for completing this task. Write one step per line."

const confirmationPrompt = "Are you sure you want to close the contract? Answer yes or no."

const clarificationPrefix = "Message from contract requester, with additional feedback: "

func taskPrompt(contractPrompt string) string {
	return "Remember to use the commands (/return_contract, /finish_contract, /write_file, /run_code). Your task is to understand and complete the given contract: " + contractPrompt
}

func actionReviewPrompt(action string) string {
	return fmt.Sprintf("Your action was: %s. Please consider this and explain your next steps.", action)
}

func revisionPrompt(reason string, feedback string) string {
	return fmt.Sprintf("Your previous response was rejected (%s). Supervisor feedback: %s Propose a different next action.", reason, feedback)
}

func roundPrompt(step string, previousFeedback string) string {
	if previousFeedback == "" {
		return step
	}
	return fmt.Sprintf("Result of the previous action: %s\n\nNext step: %s", previousFeedback, step)
}

func planRevisionPrompt(step string, failure string) string {
	return fmt.Sprintf("The step %q failed with: %s. Revise the remaining plan.", step, failure)
}
