package service

import "fmt"

func welcomeEmailTemplate(username, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your notification email is set. We'll let you know whenever you finish a phase of your roadmap.

Pick up where you left off: %s

Best,
The %s Team`, username, appURL, appName)

	return subject, body
}

func phaseCompletedEmailTemplate(careerTitle, phaseName, summary, roadmapURL, appName string) (string, string) {
	subject := fmt.Sprintf("You completed %s", phaseName)
	body := fmt.Sprintf(`Congratulations!

You just finished "%s" on your %s roadmap.

%s

You can keep your current pace, ask for a harder next phase, or move your target date closer:
%s

Best,
The %s Team`, phaseName, careerTitle, summary, roadmapURL, appName)

	return subject, body
}

func roadmapCompletedEmailTemplate(careerTitle, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s roadmap is complete", careerTitle)
	body := fmt.Sprintf(`Amazing work!

Every item on your %s roadmap is done. Time to put it to use, or start a new career track:
%s

Best,
The %s Team`, careerTitle, appURL, appName)

	return subject, body
}
